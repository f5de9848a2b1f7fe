package taskpool

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrDeadlineExceeded is returned when work does not finish within its
// deadline. Only the wait is abandoned: the work keeps running in the
// background and its eventual result is discarded.
var ErrDeadlineExceeded = errors.New("taskpool: deadline exceeded")

// Pool bounds the number of concurrently running background tasks.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a Pool allowing up to size concurrent tasks.
func New(size int64) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(size)}
}

type result[T any] struct {
	value T
	err   error
}

// Do runs work on a pooled goroutine and waits at most deadline for its
// result. The underlying call has no cooperative cancellation, so on timeout
// the caller gets ErrDeadlineExceeded while the worker finishes on its own.
// The pool slot is released when the work finishes, not when the wait ends.
func Do[T any](ctx context.Context, p *Pool, deadline time.Duration, work func() (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	// Buffered so an abandoned worker can deliver its result and exit.
	out := make(chan result[T], 1)
	go func() {
		defer p.sem.Release(1)
		v, err := work()
		out <- result[T]{value: v, err: err}
	}()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case r := <-out:
		return r.value, r.err
	case <-timer.C:
		return zero, ErrDeadlineExceeded
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
