package observable_test

import (
	"context"
	"testing"
	"time"

	"sleeptrack/internal/platform/observable"
)

func waitFor[T any](t *testing.T, ch <-chan T, match func(T) bool) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed before match")
			}
			if match(v) {
				return v
			}
		case <-timeout:
			t.Fatalf("timed out waiting for value")
		}
	}
}

func TestSubscribeReceivesCurrentThenLatest(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v := observable.New[int]()
	v.Set(1)
	ch := v.Subscribe(ctx)
	if got := <-ch; got != 1 {
		t.Fatalf("expected current value 1, got %d", got)
	}
	v.Set(2)
	v.Set(3)
	if got := <-ch; got != 3 {
		t.Fatalf("slow subscriber should see latest value 3, got %d", got)
	}
	if got, ok := v.Get(); !ok || got != 3 {
		t.Fatalf("get: %d %v", got, ok)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v := observable.New[string]()
	if _, ok := v.Get(); ok {
		t.Fatalf("new value should be unset")
	}
	a := v.Subscribe(ctx)
	b := v.Subscribe(ctx)
	v.Set("night")
	if <-a != "night" || <-b != "night" {
		t.Fatalf("every subscriber should get the value")
	}
	v.Set("night!")
	if <-a != "night!" || <-b != "night!" {
		t.Fatalf("later sets should reach every subscriber")
	}
}

func TestSubscriptionEndsWithContextAndClose(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	v := observable.New[int]()
	ch := v.Subscribe(ctx)
	cancel()
	waitClosed(t, ch)

	other := v.Subscribe(context.Background())
	v.Close()
	waitClosed(t, other)
	v.Set(9)
	if _, ok := v.Get(); ok {
		t.Fatalf("set after close should be ignored")
	}
	waitClosed(t, v.Subscribe(context.Background()))
}

func waitClosed(t *testing.T, ch <-chan int) {
	t.Helper()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscription was not closed")
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	nights := observable.New[[]int]()
	tonight := observable.New[bool]()

	summary := observable.Combine(ctx, nights, tonight, func(ids []int, active bool) int {
		if active {
			return len(ids) * 10
		}
		return len(ids)
	})
	summaryCh := summary.Subscribe(ctx)

	nights.Set([]int{1, 2})
	if _, ok := summary.Get(); ok {
		t.Fatalf("combine must wait for both sources")
	}
	tonight.Set(true)
	waitFor(t, summaryCh, func(v int) bool { return v == 20 })
	tonight.Set(false)
	waitFor(t, summaryCh, func(v int) bool { return v == 2 })

	nights.Close()
	waitForClose(t, summaryCh)
}

func waitForClose(t *testing.T, ch <-chan int) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("derived value was not closed")
		}
	}
}
