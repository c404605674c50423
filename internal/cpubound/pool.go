// Package cpubound provides a bounded worker pool for CPU-heavy tasks such
// as password hashing. Request handlers hand the computation to the pool and
// wait on a result channel, so multi-millisecond CPU work never runs inline
// on the serving path and its total parallelism stays capped.
package cpubound

import (
	"context"
	"sync"
)

type task struct {
	ctx  context.Context
	fn   func() error
	done chan error
}

// Pool runs submitted tasks on a fixed number of worker goroutines.
type Pool struct {
	tasks chan task
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewPool starts a pool with the given number of workers and queue capacity.
// Workers and queue sizes below 1 are raised to 1.
func NewPool(workers, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{tasks: make(chan task, queueSize)}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		if t.ctx.Err() != nil {
			t.done <- t.ctx.Err()
			continue
		}
		t.done <- t.fn()
	}
}

// Do submits fn to the pool and waits for its result. If ctx is cancelled
// before the task is queued or finishes, Do returns the context error; an
// already-running task is not interrupted, its result is simply discarded.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for in-flight ones to finish.
// Calling Do after Close panics, mirroring sends on a closed channel.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
