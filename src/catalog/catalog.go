// Package catalog groups tool references into the category map the grid
// renders.
package catalog

import (
	"sort"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

const (
	// YourToolsCategory holds the current user's own tools and is always
	// rendered ahead of every other category.
	YourToolsCategory = "Your Tools"

	// UncategorizedCategory collects tools that carry no category metadata.
	UncategorizedCategory = "Uncategorized"
)

// CategoryEntry is one category of the grid.
type CategoryEntry struct {
	Tools      []tools.Tool `json:"tools"`
	BundleTool *tools.Tool  `json:"bundleTool,omitempty"`
}

// Description is the text shown under the category header: the bundle
// tool's description, or "" when the category has no bundle.
func (e CategoryEntry) Description() string {
	if e.BundleTool == nil {
		return ""
	}
	return e.BundleTool.Description
}

// Clone deep-copies the entry.
func (e CategoryEntry) Clone() CategoryEntry {
	out := CategoryEntry{Tools: make([]tools.Tool, len(e.Tools))}
	for i, t := range e.Tools {
		out.Tools[i] = t.Clone()
	}
	if e.BundleTool != nil {
		b := e.BundleTool.Clone()
		out.BundleTool = &b
	}
	return out
}

// CategoryMap maps a category name to its entry.
type CategoryMap map[string]CategoryEntry

// Names returns the category names in render order: YourToolsCategory
// first when present, then the rest ascending.
func (m CategoryMap) Names() []string {
	names := make([]string, 0, len(m))
	_, hasYours := m[YourToolsCategory]
	for name := range m {
		if name == YourToolsCategory {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if hasYours {
		names = append([]string{YourToolsCategory}, names...)
	}
	return names
}

// Len returns the number of tools across all categories, bundles excluded.
func (m CategoryMap) Len() int {
	n := 0
	for _, e := range m {
		n += len(e.Tools)
	}
	return n
}

// Clone deep-copies the map.
func (m CategoryMap) Clone() CategoryMap {
	if m == nil {
		return nil
	}
	out := make(CategoryMap, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
