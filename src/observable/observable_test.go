package observable

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesCurrentAndUpdates(t *testing.T) {
	w := NewWritable(1)
	var got []int
	unsub := w.Subscribe(func(v int) { got = append(got, v) })

	w.Set(2)
	w.Update(func(v int) int { return v * 10 })
	assert.Equal(t, []int{1, 2, 20}, got)
	assert.Equal(t, 20, w.Get())

	unsub()
	unsub()
	w.Set(3)
	assert.Equal(t, []int{1, 2, 20}, got)
	assert.Equal(t, 0, w.Subscribers())
}

func TestSubscribersRunInOrder(t *testing.T) {
	w := NewWritable("")
	var order []string
	w.Subscribe(func(string) { order = append(order, "first") })
	w.Subscribe(func(string) { order = append(order, "second") })
	order = nil
	w.Set("x")
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestUnsubscribeFromCallback(t *testing.T) {
	w := NewWritable(0)
	calls := 0
	var unsub func()
	unsub = w.Subscribe(func(v int) {
		calls++
		if v == 1 {
			unsub()
		}
	})
	w.Set(1)
	w.Set(2)
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestConcurrentSetIsSerialised(t *testing.T) {
	w := NewWritable(0)
	var mu sync.Mutex
	inside := 0
	maxInside := 0
	w.Subscribe(func(int) {
		mu.Lock()
		inside++
		if inside > maxInside {
			maxInside = inside
		}
		mu.Unlock()
		mu.Lock()
		inside--
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			w.Set(v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}
