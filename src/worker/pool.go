package worker

import (
	"context"
	"sync"
)

// Job is one unit of extraction work executed off the event loop.
type Job func(ctx context.Context) (string, error)

// ResultCallback is invoked on job completion (from a worker goroutine).
// The event loop should pass a closure that posts back into the loop safely.
type ResultCallback func(text string, err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict
// back-pressure): interactions are processed serially, so a second job
// arriving while one runs is dropped rather than queued behind stale work.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx context.Context
	run Job
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to 1 when size<=0; the clipboard
// is a single shared resource, so one worker is the safe default.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				text, err := runWithContext(j.ctx, j.run)
				j.cb(text, err)
			}
		}()
	}
}

// Submit enqueues a job if the single-slot queue is free. Returns false if
// dropped.
func (p *Pool) Submit(ctx context.Context, run Job, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, run: run, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// runWithContext runs the job in a sub-goroutine and respects ctx.Done so a
// stuck extraction cannot wedge the worker past its deadline.
func runWithContext(ctx context.Context, run Job) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		return run(ctx)
	}

	resCh := make(chan struct {
		text string
		err  error
	}, 1)
	go func() {
		text, err := run(ctx)
		resCh <- struct {
			text string
			err  error
		}{text, err}
	}()
	select {
	case r := <-resCh:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
