package grid

import (
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// NoResultsMessage is shown when nothing matched.
const NoResultsMessage = "No tools found..."

// Renderer draws the pieces of a grid.
type Renderer interface {
	// Message shows a standalone line of text.
	Message(text string)
	// Header starts a category section.
	Header(category, description string, list []tools.Tool)
	// Tools lists a category's tools; onDelete deletes a tool by ID.
	Tools(list []tools.Tool, onDelete func(id string))
}

// Render draws m. An empty map shows NoResultsMessage. Otherwise Your
// Tools comes first, without a description, followed by the remaining
// categories in name order, each described by its bundle tool. Categories
// without tools are skipped.
func Render(m catalog.CategoryMap, r Renderer, onDelete func(id string)) {
	if len(m) == 0 {
		r.Message(NoResultsMessage)
		return
	}
	if yours, ok := m[catalog.YourToolsCategory]; ok {
		renderCategory(r, catalog.YourToolsCategory, yours.Tools, "", onDelete)
	}
	for _, name := range m.Names() {
		if name == catalog.YourToolsCategory {
			continue
		}
		entry := m[name]
		renderCategory(r, name, entry.Tools, entry.Description(), onDelete)
	}
}

func renderCategory(r Renderer, category string, list []tools.Tool, description string, onDelete func(id string)) {
	if len(list) == 0 {
		return
	}
	r.Header(category, description, list)
	r.Tools(list, onDelete)
}
