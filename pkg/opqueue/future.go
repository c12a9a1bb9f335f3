package opqueue

import (
	"context"

	"github.com/pkg/errors"
)

// Future is the result handle returned by Enqueue. It resolves exactly once,
// with the operation's value or its error, when the operation finishes.
//
// A Future whose entry is dropped by Clear before starting never resolves;
// callers that may race with Clear should wait with a cancellable context.
type Future struct {
	done chan struct{}
	val  any
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// complete must be called at most once.
func (f *Future) complete(val any, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed once the operation has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the operation finishes or ctx is done, returning the
// operation's value and error.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await waits for f and asserts the result to T.
func Await[T any](ctx context.Context, f *Future) (T, error) {
	var zero T

	val, err := f.Wait(ctx)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.Errorf("unexpected result type %T", val)
	}
	return typed, nil
}
