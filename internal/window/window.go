// Package window provides a fixed-capacity FIFO used for the rolling display
// buffers of an animation.
package window

import "github.com/gammazero/deque"

// Window holds at most Cap() values in arrival order. Pushing onto a full
// window drops the oldest value.
type Window[T any] struct {
	q        deque.Deque[T]
	capacity int
}

// New returns an empty window. capacity must be positive.
func New[T any](capacity int) *Window[T] {
	if capacity <= 0 {
		panic("window: capacity must be positive")
	}
	return &Window[T]{capacity: capacity}
}

// Push appends v, evicting the oldest value if the window is full.
func (w *Window[T]) Push(v T) {
	if w.q.Len() == w.capacity {
		w.q.PopFront()
	}
	w.q.PushBack(v)
}

// Values returns a copy of the contents, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, w.q.Len())
	for i := range out {
		out[i] = w.q.At(i)
	}
	return out
}

func (w *Window[T]) Len() int { return w.q.Len() }
func (w *Window[T]) Cap() int { return w.capacity }

// Back returns the most recently pushed value.
func (w *Window[T]) Back() (T, bool) {
	if w.q.Len() == 0 {
		var zero T
		return zero, false
	}
	return w.q.Back(), true
}

// Front returns the oldest value still held.
func (w *Window[T]) Front() (T, bool) {
	if w.q.Len() == 0 {
		var zero T
		return zero, false
	}
	return w.q.Front(), true
}

func (w *Window[T]) Clear() { w.q.Clear() }
