// Package filter narrows a category map down to the tools matching a
// free-text query.
package filter

import (
	"sort"
	"strings"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// Categories returns a new map holding, for every category with at least
// one tool matching query, the category's tools sorted by name with the
// bundle tool (if any) in front. The bundle tool is carried over on every
// retained category even when it did not match itself. The input map and
// its slices are never modified.
//
// A tool list that already contains the bundle tool (for example the output
// of an earlier call) does not get it twice, so Categories is idempotent.
func Categories(categories catalog.CategoryMap, query string) catalog.CategoryMap {
	needle := strings.ToLower(query)
	result := make(catalog.CategoryMap)
	for name, entry := range categories {
		sorted := make([]tools.Tool, 0, len(entry.Tools))
		for _, t := range entry.Tools {
			if entry.BundleTool != nil && sameTool(t, *entry.BundleTool) {
				continue
			}
			sorted = append(sorted, t)
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Name < sorted[j].Name
		})

		candidates := sorted
		if entry.BundleTool != nil {
			candidates = append([]tools.Tool{*entry.BundleTool}, sorted...)
		}

		var kept []tools.Tool
		for _, t := range candidates {
			if matchesLower(t, needle) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			result[name] = catalog.CategoryEntry{Tools: kept, BundleTool: entry.BundleTool}
		}
	}
	return result
}

// Matches reports whether query occurs, case-insensitively, in the tool's
// search text. An empty query matches every tool.
func Matches(t tools.Tool, query string) bool {
	return matchesLower(t, strings.ToLower(query))
}

func matchesLower(t tools.Tool, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(SearchText(t)), needle)
}

// SearchText is the text a query is matched against: name, category and
// description joined by "|", skipping empty fields.
func SearchText(t tools.Tool) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Name, t.Metadata.Get(tools.MetaCategory), t.Description} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "|")
}

// sameTool reports whether t is the bundle tool. Tools without IDs are
// compared by content, and only when t is flagged as a bundle itself.
func sameTool(t, bundle tools.Tool) bool {
	if t.ID != "" || bundle.ID != "" {
		return t.ID == bundle.ID
	}
	return t.IsBundle() &&
		t.Name == bundle.Name && t.Description == bundle.Description && t.Category() == bundle.Category()
}
