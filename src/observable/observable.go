// Package observable provides a small value cell that notifies subscribers
// whenever its value is replaced.
package observable

import (
	"sync"
)

// Readable is the read side of a cell.
type Readable[T any] interface {
	// Get returns the current value.
	Get() T
	// Subscribe calls fn with the current value right away and again after
	// every Set. The returned function removes the subscription.
	Subscribe(fn func(T)) (unsubscribe func())
}

// Writable is a mutex-guarded cell. Subscribers are invoked synchronously,
// in subscription order, outside the lock and serialised with each other so
// that every subscriber sees values in the order they were set. A
// subscriber must not call Set, Update or Subscribe on the cell that is
// notifying it; unsubscribing from inside a callback is fine.
type Writable[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[uint64]func(T)
	order  []uint64
	nextID uint64

	// notify serialises deliveries; held while subscribers run.
	notify sync.Mutex
}

// NewWritable returns a cell holding initial.
func NewWritable[T any](initial T) *Writable[T] {
	return &Writable[T]{value: initial, subs: make(map[uint64]func(T))}
}

func (w *Writable[T]) Get() T {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Set replaces the value and notifies every subscriber.
func (w *Writable[T]) Set(v T) {
	w.notify.Lock()
	defer w.notify.Unlock()

	w.mu.Lock()
	w.value = v
	fns := w.snapshot()
	w.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Update sets the value to fn(current).
func (w *Writable[T]) Update(fn func(T) T) {
	w.notify.Lock()
	defer w.notify.Unlock()

	w.mu.Lock()
	v := fn(w.value)
	w.value = v
	fns := w.snapshot()
	w.mu.Unlock()

	for _, f := range fns {
		f(v)
	}
}

func (w *Writable[T]) Subscribe(fn func(T)) func() {
	w.notify.Lock()
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	w.order = append(w.order, id)
	v := w.value
	w.mu.Unlock()
	fn(v)
	w.notify.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.subs, id)
			for i, o := range w.order {
				if o == id {
					w.order = append(w.order[:i], w.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (w *Writable[T]) Subscribers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}

func (w *Writable[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(w.order))
	for _, id := range w.order {
		fns = append(fns, w.subs[id])
	}
	return fns
}
