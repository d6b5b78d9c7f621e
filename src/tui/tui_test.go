package tui

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/grid"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/observable"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

type stubGrid struct {
	view    catalog.CategoryMap
	queries []string
	deleted []string
}

func (g *stubGrid) SetQuery(q string) { g.queries = append(g.queries, q) }

func (g *stubGrid) Render(r grid.Renderer) {
	grid.Render(g.view, r, func(id string) { g.deleted = append(g.deleted, id) })
}

func mk(id, name, desc string) tools.Tool {
	return tools.Tool{ID: id, Name: name, Description: desc}
}

func sample() catalog.CategoryMap {
	return catalog.CategoryMap{
		"Search":                  {Tools: []tools.Tool{mk("t3", "web", "Search the web")}},
		catalog.YourToolsCategory: {Tools: []tools.Tool{mk("t1", "alpha", "")}},
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModelTypingSetsQuery(t *testing.T) {
	g := &stubGrid{view: sample()}
	m := NewModel(g)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})

	assert.Equal(t, "we", m.Query())
	assert.Equal(t, []string{"w", "we"}, g.queries)
}

func TestModelViewOrderAndEmpty(t *testing.T) {
	g := &stubGrid{view: sample()}
	m := NewModel(g)

	view := m.View()
	yours := strings.Index(view, catalog.YourToolsCategory)
	search := strings.Index(view, "Search (1)")
	require.True(t, yours >= 0 && search >= 0, view)
	assert.Less(t, yours, search)

	g.view = catalog.CategoryMap{}
	m, _ = update(t, m, FilteredMsg{Categories: g.view})
	assert.Contains(t, m.View(), grid.NoResultsMessage)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestModelSelectionAndDelete(t *testing.T) {
	g := &stubGrid{view: sample()}
	m := NewModel(g)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "alpha", sel.Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, "web", sel.Name)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, "web", sel.Name, "cursor stops at the last tool")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"t3"}, g.deleted)
	assert.Contains(t, m.View(), "Deleted web")
}

func TestModelAssignedPanel(t *testing.T) {
	m := NewModel(&stubGrid{view: sample()})
	assert.Contains(t, m.View(), "no assistant selected")

	m, _ = update(t, m, AssignedMsg{List: tools.ToolList{Readonly: true, Items: []tools.Tool{mk("x", "calculator", "")}}})
	view := m.View()
	assert.Contains(t, view, "calculator")
	assert.Contains(t, view, "read-only")
}

func TestModelWindowSize(t *testing.T) {
	m := NewModel(&stubGrid{view: sample()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "alpha")
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&stubGrid{view: sample()})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

type sendRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *sendRecorder) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestBridge(t *testing.T) {
	filtered := observable.NewWritable(sample())
	assigned := observable.NewWritable(tools.NewToolList())
	rec := &sendRecorder{}

	stop := Bridge(rec, filtered, assigned)
	filtered.Set(catalog.CategoryMap{})
	stop()
	filtered.Set(sample())

	require.Len(t, rec.msgs, 3)
	assert.IsType(t, FilteredMsg{}, rec.msgs[0])
	assert.IsType(t, AssignedMsg{}, rec.msgs[1])
	assert.Equal(t, FilteredMsg{Categories: catalog.CategoryMap{}}, rec.msgs[2])
}

func TestModelFirstRenderListsBundleFirst(t *testing.T) {
	bundle := tools.Tool{ID: "b", Name: "All Search", Metadata: tools.Metadata{tools.MetaCategory: "Search", tools.MetaBundle: true}}
	g := grid.New(catalog.CategoryMap{"Search": {
		Tools:      []tools.Tool{mk("z", "zeta", ""), mk("a", "alpha", "")},
		BundleTool: &bundle,
	}})
	defer g.Close()

	m := NewModel(g)
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "All Search", sel.Name)

	view := m.View()
	b, a, z := strings.Index(view, "All Search"), strings.Index(view, "alpha"), strings.Index(view, "zeta")
	require.True(t, b >= 0 && a >= 0 && z >= 0, view)
	assert.Less(t, b, a)
	assert.Less(t, a, z)
}
