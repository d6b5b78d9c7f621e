package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

type InMemoryToolRepository struct {
	categories catalog.CategoryMap
	mu         sync.RWMutex
}

func NewInMemoryToolRepository() *InMemoryToolRepository {
	return &InMemoryToolRepository{categories: make(catalog.CategoryMap)}
}

// NewInMemoryToolRepositoryFrom seeds a repository with a copy of m.
func NewInMemoryToolRepositoryFrom(m catalog.CategoryMap) *InMemoryToolRepository {
	r := NewInMemoryToolRepository()
	for name, entry := range m {
		r.categories[name] = entry.Clone()
	}
	return r
}

func (r *InMemoryToolRepository) SaveCategoryWithTools(ctx context.Context, category string, entry catalog.CategoryEntry) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if category == "" {
		return fmt.Errorf("category name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[category] = entry.Clone()
	return nil
}

func (r *InMemoryToolRepository) RemoveCategory(ctx context.Context, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category]; !ok {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	delete(r.categories, category)
	return nil
}

func (r *InMemoryToolRepository) RemoveTool(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, entry := range r.categories {
		if entry.BundleTool != nil && entry.BundleTool.ID == id {
			entry.BundleTool = nil
			r.categories[name] = entry
			return nil
		}
		for i, t := range entry.Tools {
			if t.ID == id {
				kept := make([]tools.Tool, 0, len(entry.Tools)-1)
				kept = append(kept, entry.Tools[:i]...)
				entry.Tools = append(kept, entry.Tools[i+1:]...)
				r.categories[name] = entry
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrToolNotFound, id)
}

func (r *InMemoryToolRepository) GetTool(ctx context.Context, id string) (*tools.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.categories {
		if entry.BundleTool != nil && entry.BundleTool.ID == id {
			t := entry.BundleTool.Clone()
			return &t, nil
		}
		for _, t := range entry.Tools {
			if t.ID == id {
				c := t.Clone()
				return &c, nil
			}
		}
	}
	return nil, nil
}

func (r *InMemoryToolRepository) GetTools(ctx context.Context) ([]tools.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []tools.Tool
	for _, name := range r.categories.Names() {
		entry := r.categories[name]
		if entry.BundleTool != nil {
			all = append(all, entry.BundleTool.Clone())
		}
		for _, t := range entry.Tools {
			all = append(all, t.Clone())
		}
	}
	return all, nil
}

func (r *InMemoryToolRepository) GetToolsByCategory(ctx context.Context, category string) ([]tools.Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.categories[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, category)
	}
	return entry.Clone().Tools, nil
}

func (r *InMemoryToolRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.categories.Names(), nil
}

func (r *InMemoryToolRepository) CategoryMap(ctx context.Context) (catalog.CategoryMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.categories.Clone(), nil
}
