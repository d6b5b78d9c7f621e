// Package store holds the lazily loaded list of tools for the current
// assistant.
package store

import (
	"context"
	"sync"

	"github.com/universal-tool-calling-protocol/go-toolgrid/src/apiclient"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/assistant"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/observable"
	"github.com/universal-tool-calling-protocol/go-toolgrid/src/tools"
)

// State is the lifecycle state of a LazyToolStore.
type State int

const (
	// Uninitialized: no successful fetch yet; the cell holds its initial
	// (or last known) value.
	Uninitialized State = iota
	// Loading: a fetch is in flight; assistant updates are ignored.
	Loading
	// Initialized: the fetched list has been published. Terminal.
	Initialized
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Loading:
		return "LOADING"
	case Initialized:
		return "INITIALIZED"
	default:
		return "UNKNOWN"
	}
}

// ReadonlyPolicy decides which readonly flag is published after a fetch.
type ReadonlyPolicy int

const (
	// KeepReadonly always publishes Readonly=true, whatever the service
	// returned.
	KeepReadonly ReadonlyPolicy = iota
	// UseFetched publishes the flag the service returned.
	UseFetched
)

// Environment reports whether the process can run asynchronous work tied
// to a user session. Prerendering or batch contexts return false.
type Environment interface {
	CanRunAsync() bool
}

// EnvironmentFunc adapts a func to Environment.
type EnvironmentFunc func() bool

func (f EnvironmentFunc) CanRunAsync() bool { return f() }

var (
	// Interactive is an environment with a live user session.
	Interactive Environment = EnvironmentFunc(func() bool { return true })
	// Prerender is an environment without one; a store never subscribes in it.
	Prerender Environment = EnvironmentFunc(func() bool { return false })
)

type options struct {
	env      Environment
	readonly ReadonlyPolicy
	logger   func(format string, args ...interface{})
}

// Option configures a LazyToolStore.
type Option func(*options)

func WithEnvironment(env Environment) Option {
	return func(o *options) { o.env = env }
}

func WithReadonlyPolicy(p ReadonlyPolicy) Option {
	return func(o *options) { o.readonly = p }
}

func WithLogger(logger func(format string, args ...interface{})) Option {
	return func(o *options) { o.logger = logger }
}

// LazyToolStore is an observable ToolList filled once, the first time a
// non-empty assistant is observed. It never refreshes afterwards.
//
// A failed fetch is logged and kept in Err; the store falls back to
// Uninitialized so the next non-empty assistant update tries again.
type LazyToolStore struct {
	cell   *observable.Writable[tools.ToolList]
	lister apiclient.ToolLister
	opts   options

	mu          sync.Mutex
	state       State
	err         error
	started     bool
	closed      bool
	ctx         context.Context
	unsubscribe func()
	ready       chan struct{}
	wg          sync.WaitGroup
}

// New returns an unstarted store holding {Readonly: true, Items: []}.
func New(lister apiclient.ToolLister, opts ...Option) *LazyToolStore {
	o := options{env: Interactive, readonly: KeepReadonly}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = func(format string, args ...interface{}) {}
	}
	return &LazyToolStore{
		cell:   observable.NewWritable(tools.NewToolList()),
		lister: lister,
		opts:   o,
		ready:  make(chan struct{}),
	}
}

// Start subscribes the store to current. ctx bounds the fetch. It returns
// false, and does nothing, when the environment cannot run asynchronous
// work or the store was already started or closed.
func (s *LazyToolStore) Start(ctx context.Context, current observable.Readable[assistant.Assistant]) bool {
	if !s.opts.env.CanRunAsync() {
		s.opts.logger("Tool store not started: environment cannot run async work")
		return false
	}
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return false
	}
	s.started = true
	s.ctx = ctx
	s.mu.Unlock()

	unsub := current.Subscribe(s.onAssistant)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		unsub()
		return true
	}
	s.unsubscribe = unsub
	s.mu.Unlock()
	return true
}

// onAssistant is the single entry point for the one-shot transition.
func (s *LazyToolStore) onAssistant(a assistant.Assistant) {
	s.mu.Lock()
	if s.closed || s.state != Uninitialized || a.Empty() {
		s.mu.Unlock()
		return
	}
	s.state = Loading
	ctx := s.ctx
	s.wg.Add(1)
	s.mu.Unlock()

	go s.load(ctx, a.ID)
}

func (s *LazyToolStore) load(ctx context.Context, assistantID string) {
	defer s.wg.Done()

	list, err := s.lister.ListTools(ctx, assistantID)
	if err != nil {
		s.mu.Lock()
		s.state = Uninitialized
		s.err = err
		s.mu.Unlock()
		s.opts.logger("Failed to load tools for assistant %s: %v", assistantID, err)
		return
	}

	value := tools.ToolList{Readonly: true, Items: []tools.Tool{}}
	if list != nil {
		if list.Items != nil {
			value.Items = list.Items
		}
		if s.opts.readonly == UseFetched {
			value.Readonly = list.Readonly
		}
	}
	s.cell.Set(value)

	s.mu.Lock()
	s.state = Initialized
	s.err = nil
	close(s.ready)
	s.mu.Unlock()
	s.opts.logger("Loaded %d tools for assistant %s", len(value.Items), assistantID)
}

// Get returns the current tool list.
func (s *LazyToolStore) Get() tools.ToolList { return s.cell.Get() }

// Subscribe observes the tool list; see observable.Readable.
func (s *LazyToolStore) Subscribe(fn func(tools.ToolList)) func() {
	return s.cell.Subscribe(fn)
}

// State returns the current lifecycle state.
func (s *LazyToolStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error of the last failed fetch, nil once initialized.
func (s *LazyToolStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the store is Initialized or ctx is done.
func (s *LazyToolStore) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drops the assistant subscription and waits for an in-flight fetch.
// Assistant updates delivered after Close never start a fetch.
func (s *LazyToolStore) Close() {
	s.mu.Lock()
	s.closed = true
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	s.wg.Wait()
}

var _ observable.Readable[tools.ToolList] = (*LazyToolStore)(nil)
