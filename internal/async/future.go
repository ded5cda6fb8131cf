// Package async provides a single-assignment result for operations started in
// the background.
//
// A Future resolves exactly once. Continuations registered with Then run
// exactly once, after resolution, whether they were attached before or after
// the result arrived.
package async

import (
	"context"
	"fmt"
	"sync"
)

// Future holds the eventual outcome of one call.
type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

// New returns an unresolved Future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Go runs fn in a new goroutine and returns a Future for its result. A panic
// in fn resolves the Future with an error.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.Resolve(zero, fmt.Errorf("panic: %v", r))
			}
		}()
		f.Resolve(fn(ctx))
	}()
	return f
}

// Resolve sets the outcome. It reports whether this call won; later calls are ignored.
func (f *Future[T]) Resolve(v T, err error) bool {
	won := false
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
		won = true
	})
	return won
}

// Done is closed once the Future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the Future resolves or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then calls onSuccess or onFailure, exactly one of them, once the Future
// resolves. Either callback may be nil.
func (f *Future[T]) Then(onSuccess func(T), onFailure func(error)) {
	go func() {
		<-f.done
		if f.err != nil {
			if onFailure != nil {
				onFailure(f.err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(f.value)
		}
	}()
}
