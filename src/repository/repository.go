package repository

import (
	"context"
	"errors"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// ToolRepository defines the contract for storing tool references grouped
// by category.
type ToolRepository interface {
	// SaveCategoryWithTools replaces a category's tools and bundle tool.
	SaveCategoryWithTools(ctx context.Context, category string, entry catalog.CategoryEntry) error

	// RemoveCategory removes a category and all its tools.
	// Returns ErrCategoryNotFound if the category does not exist.
	RemoveCategory(ctx context.Context, category string) error

	// RemoveTool removes a single tool (or bundle tool) by ID.
	// Returns ErrToolNotFound if the tool does not exist.
	RemoveTool(ctx context.Context, id string) error

	// GetTool retrieves a tool by ID.
	// Returns (nil, nil) if the tool is not found.
	GetTool(ctx context.Context, id string) (*tools.Tool, error)

	// GetTools returns all tools in the repository, bundle tools included.
	GetTools(ctx context.Context) ([]tools.Tool, error)

	// GetToolsByCategory returns the tools of one category.
	GetToolsByCategory(ctx context.Context, category string) ([]tools.Tool, error)

	// Categories returns the category names in render order.
	Categories(ctx context.Context) ([]string, error)

	// CategoryMap returns a copy of the stored categories.
	CategoryMap(ctx context.Context) (catalog.CategoryMap, error)
}
