package catalog

import (
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// GroupOptions tune how Group assigns tools to categories.
type GroupOptions struct {
	// OwnerID moves tools whose metadata.owner matches it into
	// YourToolsCategory. Empty disables owner matching.
	OwnerID string
}

// Group builds a CategoryMap from a flat list of tool references.
//
// Tools flagged custom, or owned by opts.OwnerID, land in YourToolsCategory.
// A bundle tool becomes its category's BundleTool instead of a list entry;
// if a category has more than one bundle the first one wins and the rest
// are listed as ordinary tools. Tools with no category go to
// UncategorizedCategory. Input order is kept within each category.
func Group(list []tools.Tool, opts GroupOptions) CategoryMap {
	result := make(CategoryMap)
	for _, t := range list {
		category := categoryOf(t, opts)
		entry := result[category]
		if t.IsBundle() && entry.BundleTool == nil && category != YourToolsCategory {
			b := t
			entry.BundleTool = &b
		} else {
			entry.Tools = append(entry.Tools, t)
		}
		result[category] = entry
	}
	return result
}

func categoryOf(t tools.Tool, opts GroupOptions) string {
	if t.Metadata.Bool(tools.MetaCustom) {
		return YourToolsCategory
	}
	if opts.OwnerID != "" && t.Metadata.Get(tools.MetaOwner) == opts.OwnerID {
		return YourToolsCategory
	}
	if c := t.Category(); c != "" {
		return c
	}
	return UncategorizedCategory
}
