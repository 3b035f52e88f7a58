// Package single provides a coalescing future: a single-flight primitive
// where the first caller creates and runs a pending operation, concurrent
// callers attach to the same one, and the slot is cleared exactly once when
// the operation settles.
//
// It exists so the "at most one credential renewal in flight" invariant is
// carried by a small, independently tested primitive instead of a nullable
// package-level variable.
package single

import (
	"context"
	"sync"
)

type ticket[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Flight coalesces concurrent executions of one fallible operation.
// The zero value is ready to use.
type Flight[T any] struct {
	mu      sync.Mutex
	current *ticket[T]
}

// Do returns fn's result, sharing one execution among concurrent callers.
//
// The first caller runs fn on its own goroutine and settles the shared
// ticket; callers that arrive before settlement wait for the same outcome.
// shared reports whether this caller attached to an execution it did not
// start. A caller whose ctx is done before the ticket settles unblocks with
// ctx.Err(); the ticket itself keeps running for the remaining callers.
func (f *Flight[T]) Do(ctx context.Context, fn func() (T, error)) (val T, shared bool, err error) {
	f.mu.Lock()
	if t := f.current; t != nil {
		f.mu.Unlock()
		select {
		case <-t.done:
			return t.val, true, t.err
		case <-ctx.Done():
			var zero T
			return zero, true, ctx.Err()
		}
	}

	t := &ticket[T]{done: make(chan struct{})}
	f.current = t
	f.mu.Unlock()

	t.val, t.err = fn()

	// Clear the slot before waking waiters: a caller arriving after
	// settlement must start a fresh execution, never observe a settled one.
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	close(t.done)

	return t.val, false, t.err
}

// Pending reports whether an execution is currently in flight.
func (f *Flight[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current != nil
}
