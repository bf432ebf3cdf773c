// Package signal holds single-slot events that a consumer takes exactly once.
package signal

import "sync"

// Event keeps at most one pending value. Emit overwrites an untaken value;
// Take reads and clears it in one step, so a value is never handed out twice.
type Event[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool
	ready   chan struct{}
}

func NewEvent[T any]() *Event[T] {
	return &Event[T]{ready: make(chan struct{}, 1)}
}

func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	e.value = v
	e.pending = true
	e.mu.Unlock()
	select {
	case e.ready <- struct{}{}:
	default:
	}
}

func (e *Event[T]) Take() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero T
	if !e.pending {
		return zero, false
	}
	v := e.value
	e.value = zero
	e.pending = false
	return v, true
}

// Ready yields a token after Emit. Tokens coalesce; a token with nothing left
// to Take is possible and must be tolerated.
func (e *Event[T]) Ready() <-chan struct{} {
	return e.ready
}
