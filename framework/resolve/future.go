package resolve

import "context"

// Future holds the single outcome of an asynchronous resolution.
type Future[T interface{}] struct {
	done   chan struct{}
	entity *T
	err    error
}

func (r *Resolver[T]) ResolveAsync(ctx context.Context, params Params) *Future[T] {
	future := &Future[T]{done: make(chan struct{})}

	go func() {
		defer close(future.done)
		future.entity, future.err = r.Resolve(ctx, params)
	}()

	return future
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the resolution settles and returns the same values
// Resolve would have returned.
func (f *Future[T]) Wait() (*T, error) {
	<-f.done
	return f.entity, f.err
}

// Await is Wait bounded by ctx. It reports ctx.Err() if ctx ends first;
// the resolution itself keeps running until its own context ends.
func (f *Future[T]) Await(ctx context.Context) (*T, error) {
	select {
	case <-f.done:
		return f.entity, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
