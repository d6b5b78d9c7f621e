// Package grid keeps a filtered view of a tool category map in sync with a
// search query and renders it.
package grid

import (
	"sync"
	"time"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/catalog"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/debounce"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/filter"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/observable"
)

// DefaultQuiescence is how long the query must stay unchanged before the
// grid is filtered again.
const DefaultQuiescence = 150 * time.Millisecond

type options struct {
	quiescence time.Duration
	onDelete   func(id string)
	afterFunc  debounce.AfterFunc
	logger     func(format string, args ...interface{})
}

// Option configures a ToolGrid.
type Option func(*options)

func WithQuiescence(d time.Duration) Option {
	return func(o *options) { o.quiescence = d }
}

// WithOnDelete sets the handler forwarded to Renderer.Tools.
func WithOnDelete(fn func(id string)) Option {
	return func(o *options) { o.onDelete = fn }
}

// WithAfterFunc replaces the debounce timer factory.
func WithAfterFunc(f debounce.AfterFunc) Option {
	return func(o *options) { o.afterFunc = f }
}

func WithLogger(logger func(format string, args ...interface{})) Option {
	return func(o *options) { o.logger = logger }
}

// ToolGrid filters a category map by a query. Query and category changes
// are debounced; only the state current when the quiescence window ends
// is filtered.
type ToolGrid struct {
	opts options

	mu         sync.Mutex
	categories catalog.CategoryMap
	query      string

	filtered  *observable.Writable[catalog.CategoryMap]
	debouncer *debounce.Debouncer[string]
}

// New returns a grid whose filtered view starts as categories filtered by
// the empty query, so bundles lead and tools are sorted from the first
// render.
func New(categories catalog.CategoryMap, opts ...Option) *ToolGrid {
	o := options{quiescence: DefaultQuiescence}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = func(format string, args ...interface{}) {}
	}
	if o.onDelete == nil {
		o.onDelete = func(string) {}
	}
	g := &ToolGrid{
		opts:       o,
		categories: categories,
		filtered:   observable.NewWritable(filter.Categories(categories, "")),
	}
	var dopts []debounce.Option
	if o.afterFunc != nil {
		dopts = append(dopts, debounce.WithAfterFunc(o.afterFunc))
	}
	g.debouncer = debounce.New(o.quiescence, g.recompute, dopts...)
	return g
}

// SetQuery records the query and schedules a recomputation.
func (g *ToolGrid) SetQuery(q string) {
	g.mu.Lock()
	g.query = q
	g.mu.Unlock()
	g.debouncer.Trigger(q)
}

// Query returns the latest query.
func (g *ToolGrid) Query() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.query
}

// SetCategories swaps the upstream map and schedules a recomputation with
// the current query.
func (g *ToolGrid) SetCategories(m catalog.CategoryMap) {
	g.mu.Lock()
	g.categories = m
	q := g.query
	g.mu.Unlock()
	g.debouncer.Trigger(q)
}

// Categories returns the upstream map.
func (g *ToolGrid) Categories() catalog.CategoryMap {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.categories
}

// Filtered returns the latest filtered map.
func (g *ToolGrid) Filtered() catalog.CategoryMap { return g.filtered.Get() }

// Subscribe observes the filtered map.
func (g *ToolGrid) Subscribe(fn func(catalog.CategoryMap)) func() {
	return g.filtered.Subscribe(fn)
}

// Flush applies a pending recomputation immediately.
func (g *ToolGrid) Flush() bool { return g.debouncer.Flush() }

// Pending reports whether a recomputation is waiting on the window.
func (g *ToolGrid) Pending() bool { return g.debouncer.Pending() }

// Close discards any pending recomputation.
func (g *ToolGrid) Close() { g.debouncer.Stop() }

func (g *ToolGrid) recompute(q string) {
	g.mu.Lock()
	categories := g.categories
	g.mu.Unlock()

	result := filter.Categories(categories, q)
	g.opts.logger("Filtered %d categories to %d for query %q", len(categories), len(result), q)
	g.filtered.Set(result)
}

// Render draws the current filtered view; see Render.
func (g *ToolGrid) Render(r Renderer) {
	Render(g.Filtered(), r, g.opts.onDelete)
}
