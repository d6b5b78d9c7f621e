// Package debounce collapses bursts of calls into a single delayed call
// carrying the latest argument.
package debounce

import (
	"sync"
	"time"
)

// Timer is the subset of *time.Timer a Debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer delays calls to fn until no new Trigger has arrived for the
// quiescence window. Each Trigger cancels the pending timer and replaces
// the pending value.
type Debouncer[T any] struct {
	window    time.Duration
	fn        func(T)
	afterFunc AfterFunc

	mu      sync.Mutex
	timer   Timer
	pending T
	gen     uint64
	armed   bool
	stopped bool
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	afterFunc AfterFunc
}

// WithAfterFunc replaces the timer factory, mainly for tests.
func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) { o.afterFunc = f }
}

// New returns a Debouncer calling fn after window of quiet.
func New[T any](window time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{afterFunc: realAfterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{window: window, fn: fn, afterFunc: o.afterFunc}
}

// Window returns the quiescence window.
func (d *Debouncer[T]) Window() time.Duration { return d.window }

// Trigger records v as the latest value and restarts the window.
// It is a no-op after Stop.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = v
	d.armed = true
	d.gen++
	gen := d.gen
	d.timer = d.afterFunc(d.window, func() { d.fire(gen) })
}

// fire runs fn if gen is still the latest scheduled call. A timer that was
// stopped too late to prevent its callback is filtered out here.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()
	d.fn(v)
}

// Pending reports whether a call is waiting for the window to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Flush runs a pending call immediately. It returns false when nothing
// was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.pending
	d.armed = false
	d.gen++
	d.mu.Unlock()
	d.fn(v)
	return true
}

// Stop discards any pending call; later Triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.armed = false
	d.stopped = true
}
