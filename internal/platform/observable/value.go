// Package observable provides latest-value state holders with any number of
// subscribers. Slow subscribers never block publishers: each subscription
// buffers one value and a newer value replaces an unread older one.
package observable

import (
	"context"
	"sync"
)

type Value[T any] struct {
	mu     sync.Mutex
	value  T
	set    bool
	closed bool
	nextID uint64
	subs   map[uint64]*subscription[T]
}

type subscription[T any] struct {
	ch   chan T
	stop func() bool
}

func New[T any]() *Value[T] {
	return &Value[T]{subs: map[uint64]*subscription[T]{}}
}

// Get returns the current value and whether one was ever set.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.set
}

// Set stores x and delivers it to every subscriber. No-op after Close.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.value = x
	v.set = true
	for _, sub := range v.subs {
		offer(sub.ch, x)
	}
}

// Subscribe returns a channel that first yields the current value (if any)
// and then every later value, latest-wins. The channel is closed when ctx is
// done or the Value is closed.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	v.mu.Lock()
	defer v.mu.Unlock()
	ch := make(chan T, 1)
	if v.closed {
		close(ch)
		return ch
	}
	if v.set {
		ch <- v.value
	}
	id := v.nextID
	v.nextID++
	sub := &subscription[T]{ch: ch}
	v.subs[id] = sub
	sub.stop = context.AfterFunc(ctx, func() { v.unsubscribe(id) })
	return ch
}

// Close ends every subscription. Later Sets are ignored.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for id, sub := range v.subs {
		sub.stop()
		close(sub.ch)
		delete(v.subs, id)
	}
}

func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if sub, ok := v.subs[id]; ok {
		close(sub.ch)
		delete(v.subs, id)
	}
}

// offer must be called with the owning Value's lock held, which makes this
// the only sender on ch.
func offer[T any](ch chan T, x T) {
	select {
	case ch <- x:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- x:
	default:
	}
}

// Combine derives a Value from two sources. fn runs once both sources hold a
// value and again whenever either changes.
func Combine[A, B, C any](ctx context.Context, a *Value[A], b *Value[B], fn func(A, B) C) *Value[C] {
	out := New[C]()
	chA := a.Subscribe(ctx)
	chB := b.Subscribe(ctx)
	go func() {
		defer out.Close()
		var (
			lastA        A
			lastB        B
			haveA, haveB bool
		)
		for {
			select {
			case x, ok := <-chA:
				if !ok {
					return
				}
				lastA, haveA = x, true
			case y, ok := <-chB:
				if !ok {
					return
				}
				lastB, haveB = y, true
			}
			if haveA && haveB {
				out.Set(fn(lastA, lastB))
			}
		}
	}()
	return out
}
