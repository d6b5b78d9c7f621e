package filter

import (
	"context"
	"sort"
	"strings"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/repository"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// ToolSearchStrategy is an interface for any component
// that knows how to search for tools based on a query.
type ToolSearchStrategy interface {
	// SearchTools returns up to `limit` tools matching `query`.
	// A limit of 0 means "no limit" (return all matches).
	SearchTools(ctx context.Context, query string, limit int) ([]tools.Tool, error)
}

// SubstringSearchStrategy searches a repository with the same predicate the
// grid uses, returning a flat list instead of a category map.
type SubstringSearchStrategy struct {
	toolRepository repository.ToolRepository
}

// NewSubstringSearchStrategy creates a SubstringSearchStrategy over repo.
func NewSubstringSearchStrategy(repo repository.ToolRepository) *SubstringSearchStrategy {
	return &SubstringSearchStrategy{toolRepository: repo}
}

// SearchTools returns the matching tools ordered by name, then category.
func (s *SubstringSearchStrategy) SearchTools(ctx context.Context, query string, limit int) ([]tools.Tool, error) {
	all, err := s.toolRepository.GetTools(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var result []tools.Tool
	for _, t := range all {
		if matchesLower(t, needle) {
			result = append(result, t)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Category() < result[j].Category()
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
