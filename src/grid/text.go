package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// Styles used by TextRenderer.
type Styles struct {
	Header      lipgloss.Style
	Description lipgloss.Style
	Tool        lipgloss.Style
	Bundle      lipgloss.Style
	ToolDesc    lipgloss.Style
	Message     lipgloss.Style
}

var (
	primaryColor = lipgloss.Color("#7C3AED") // violet
	accentColor  = lipgloss.Color("#06B6D4") // cyan
	mutedColor   = lipgloss.Color("#6B7280") // gray
)

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle().Bold(true).Foreground(primaryColor),
		Description: lipgloss.NewStyle().Foreground(mutedColor).Italic(true),
		Tool:        lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E7EB")),
		Bundle:      lipgloss.NewStyle().Bold(true).Foreground(accentColor),
		ToolDesc:    lipgloss.NewStyle().Foreground(mutedColor),
		Message:     lipgloss.NewStyle().Foreground(mutedColor).Padding(1, 0),
	}
}

// TextRenderer writes a grid as styled text. Write errors are kept and
// returned by Err; rendering stops writing after the first one.
type TextRenderer struct {
	w      io.Writer
	styles Styles
	err    error
	// bundles remembers the IDs of the tools announced as bundles so they
	// can be marked in the following tool list.
	bundles map[string]bool
}

// NewTextRenderer returns a renderer writing to w with DefaultStyles.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w, styles: DefaultStyles(), bundles: map[string]bool{}}
}

// WithStyles replaces the styles.
func (t *TextRenderer) WithStyles(s Styles) *TextRenderer {
	t.styles = s
	return t
}

func (t *TextRenderer) Message(text string) {
	t.println(t.styles.Message.Render(text))
}

func (t *TextRenderer) Header(category, description string, list []tools.Tool) {
	t.bundles = map[string]bool{}
	for _, tl := range list {
		if tl.IsBundle() {
			t.bundles[tl.ID] = true
		}
	}
	t.println(t.styles.Header.Render(fmt.Sprintf("%s (%d)", category, len(list))))
	if description != "" {
		t.println(t.styles.Description.Render(description))
	}
}

// Tools lists each tool on its own line. Text output cannot act on
// onDelete; interactive front-ends wire it to a key binding.
func (t *TextRenderer) Tools(list []tools.Tool, onDelete func(id string)) {
	for _, tl := range list {
		name := t.styles.Tool.Render(tl.Name)
		if t.bundles[tl.ID] {
			name = t.styles.Bundle.Render(tl.Name)
		}
		line := "  • " + name
		if d := strings.TrimSpace(tl.Description); d != "" {
			line += "  " + t.styles.ToolDesc.Render(d)
		}
		t.println(line)
	}
	t.println("")
}

// Err returns the first write error.
func (t *TextRenderer) Err() error { return t.err }

func (t *TextRenderer) println(s string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintln(t.w, s)
}
