// Package tui is an interactive search-as-you-type front-end for a tool
// grid.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/grid"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// Grid is the part of *grid.ToolGrid the model drives.
type Grid interface {
	SetQuery(q string)
	Render(r grid.Renderer)
}

// FilteredMsg announces a new filtered view.
type FilteredMsg struct {
	Categories catalog.CategoryMap
}

// AssignedMsg carries the tool list of the current assistant.
type AssignedMsg struct {
	List tools.ToolList
}

type deletedMsg struct {
	name string
}

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// Bridge forwards grid and store updates to p until the returned func is
// called. assigned may be nil.
func Bridge(p Sender,
	filtered interface {
		Subscribe(func(catalog.CategoryMap)) func()
	},
	assigned interface {
		Subscribe(func(tools.ToolList)) func()
	},
) func() {
	stops := []func(){
		filtered.Subscribe(func(m catalog.CategoryMap) { p.Send(FilteredMsg{Categories: m}) }),
	}
	if assigned != nil {
		stops = append(stops, assigned.Subscribe(func(l tools.ToolList) { p.Send(AssignedMsg{List: l}) }))
	}
	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

const panelWidth = 32

// Model is the bubbletea model of the tool browser.
type Model struct {
	grid    Grid
	styles  grid.Styles
	input   textinput.Model
	results viewport.Model

	lines  []line
	items  []item
	cursor int

	assigned    tools.ToolList
	hasAssigned bool
	status      string

	width  int
	height int
	ready  bool
}

type line struct {
	text string
	item int // index into items, -1 for headers and spacing
}

type item struct {
	tool     tools.Tool
	onDelete func(id string)
}

// NewModel returns a model showing g's current view.
func NewModel(g Grid) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tools..."
	ti.Prompt = "🔎 "
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		grid:   g,
		styles: grid.DefaultStyles(),
		input:  ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n":
			m.move(1)
			return m, nil
		case "ctrl+x":
			it, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.status = fmt.Sprintf("Deleting %s...", it.tool.Name)
			return m, func() tea.Msg {
				it.onDelete(it.tool.ID)
				return deletedMsg{name: it.tool.Name}
			}
		}

	case FilteredMsg:
		m.refresh()
		return m, nil

	case AssignedMsg:
		m.assigned = msg.List
		m.hasAssigned = true
		return m, nil

	case deletedMsg:
		m.status = fmt.Sprintf("Deleted %s", msg.name)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.resultsSize()
		if !m.ready {
			m.results = viewport.New(w, h)
			m.ready = true
		} else {
			m.results.Width = w
			m.results.Height = h
		}
		m.input.Width = w - 4
		m.refresh()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if q := m.input.Value(); q != before {
		m.grid.SetQuery(q)
	}

	if m.ready {
		m.results, cmd = m.results.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	results := m.body()
	if m.ready {
		results = m.results.View()
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Tools"),
		m.input.View(),
		"",
		results,
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.renderAssigned())

	footer := "  ↑↓: select │ Ctrl+X: delete │ Esc: quit"
	if m.status != "" {
		footer = "  " + m.status + " │" + footer[1:]
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footerStyle.Render(footer))
}

// Query returns the text typed so far.
func (m Model) Query() string { return m.input.Value() }

// Selected returns the highlighted tool.
func (m Model) Selected() (tools.Tool, bool) {
	it, ok := m.selected()
	return it.tool, ok
}

func (m Model) selected() (item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return item{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) move(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	m.sync()
}

// refresh re-renders the grid's filtered view.
func (m *Model) refresh() {
	r := &listRenderer{styles: m.styles, bundles: map[string]bool{}}
	m.grid.Render(r)
	m.lines, m.items = r.lines, r.items
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.sync()
}

// sync pushes the body into the viewport and keeps the cursor visible.
func (m *Model) sync() {
	if !m.ready {
		return
	}
	m.results.SetContent(m.body())
	for i, l := range m.lines {
		if l.item != m.cursor {
			continue
		}
		if i < m.results.YOffset {
			m.results.SetYOffset(i)
		} else if i >= m.results.YOffset+m.results.Height {
			m.results.SetYOffset(i - m.results.Height + 1)
		}
		break
	}
}

func (m Model) body() string {
	var sb strings.Builder
	for i, l := range m.lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		if l.item >= 0 && l.item == m.cursor {
			sb.WriteString(cursorStyle.Render("›") + l.text[1:])
			continue
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

func (m Model) renderAssigned() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Assistant"))
	sb.WriteString("\n")
	switch {
	case !m.hasAssigned:
		sb.WriteString(footerStyle.Render("no assistant selected"))
	case len(m.assigned.Items) == 0:
		sb.WriteString(footerStyle.Render("no tools assigned"))
	default:
		for _, tl := range m.assigned.Items {
			sb.WriteString("• " + tl.Name + "\n")
		}
		if m.assigned.Readonly {
			sb.WriteString(footerStyle.Render("read-only"))
		}
	}
	return panelStyle.Width(panelWidth).Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) resultsSize() (int, int) {
	w := m.width - panelWidth - 5
	if w < 20 {
		w = 20
	}
	h := m.height - 5 // title, input, gap, footer
	if h < 3 {
		h = 3
	}
	return w, h
}

// listRenderer flattens a grid into selectable lines.
type listRenderer struct {
	styles  grid.Styles
	bundles map[string]bool
	lines   []line
	items   []item
}

func (r *listRenderer) Message(text string) {
	r.lines = append(r.lines, line{text: r.styles.Message.Render(text), item: -1})
}

func (r *listRenderer) Header(category, description string, list []tools.Tool) {
	r.bundles = map[string]bool{}
	for _, tl := range list {
		if tl.IsBundle() {
			r.bundles[tl.ID] = true
		}
	}
	if len(r.lines) > 0 {
		r.lines = append(r.lines, line{item: -1})
	}
	r.lines = append(r.lines, line{text: r.styles.Header.Render(fmt.Sprintf("%s (%d)", category, len(list))), item: -1})
	if description != "" {
		r.lines = append(r.lines, line{text: r.styles.Description.Render(description), item: -1})
	}
}

func (r *listRenderer) Tools(list []tools.Tool, onDelete func(id string)) {
	for _, tl := range list {
		name := r.styles.Tool.Render(tl.Name)
		if r.bundles[tl.ID] {
			name = r.styles.Bundle.Render(tl.Name)
		}
		text := "  " + name
		if d := strings.TrimSpace(tl.Description); d != "" {
			text += "  " + r.styles.ToolDesc.Render(d)
		}
		r.lines = append(r.lines, line{text: text, item: len(r.items)})
		r.items = append(r.items, item{tool: tl, onDelete: onDelete})
	}
}
