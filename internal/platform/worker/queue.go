// Package worker runs submitted jobs one at a time on a dedicated goroutine.
package worker

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("worker queue closed")

type Job func(ctx context.Context) error

// Future reports the outcome of one submitted job.
type Future struct {
	done chan struct{}
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) finish(err error) {
	f.err = err
	close(f.done)
}

func (f *Future) Done() <-chan struct{} { return f.done }

// Err is valid once Done is closed.
func (f *Future) Err() error {
	<-f.done
	return f.err
}

// Wait blocks until the job finished or ctx is done.
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type task struct {
	job    Job
	future *Future
}

// Queue executes jobs strictly in submission order. Jobs get the queue's
// context, which is cancelled by Close.
type Queue struct {
	ctx    context.Context
	cancel context.CancelFunc
	jobs   chan task
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts the worker. size bounds the number of waiting jobs; Submit
// blocks while the buffer is full.
func NewQueue(parent context.Context, size int) *Queue {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(parent)
	q := &Queue{ctx: ctx, cancel: cancel, jobs: make(chan task, size)}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *Queue) Submit(job Job) *Future {
	f := newFuture()
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed || q.ctx.Err() != nil {
		f.finish(ErrClosed)
		return f
	}
	select {
	case q.jobs <- task{job: job, future: f}:
	case <-q.ctx.Done():
		f.finish(ErrClosed)
	}
	return f
}

// Close cancels the running job's context, fails every queued job with
// context.Canceled and waits for the worker to exit. Safe to call twice.
func (q *Queue) Close() {
	q.cancel()
	q.mu.Lock()
	already := q.closed
	q.closed = true
	q.mu.Unlock()
	if already {
		return
	}
	q.wg.Wait()
	for {
		select {
		case t := <-q.jobs:
			t.future.finish(context.Canceled)
		default:
			return
		}
	}
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case t := <-q.jobs:
			if err := q.ctx.Err(); err != nil {
				t.future.finish(err)
				continue
			}
			t.future.finish(t.job(q.ctx))
		}
	}
}
