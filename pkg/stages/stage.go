package stages

import (
	"context"

	o "github.com/praetorian-inc/aperture/modules/options"
	"golang.org/x/sync/errgroup"
)

// Stage represents a pipeline stage that processes input of type I and produces output of type O.
// It takes a context for cancellation, a slice of options for configuration, and an input channel of type I.
// It returns an output channel of type O.
type Stage[I any, O any] func(ctx context.Context, opts []*o.Option, in <-chan I) <-chan O

// Generator converts a slice into a channel that emits each element in order.
func Generator[T any](inputs []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, input := range inputs {
			out <- input
		}
	}()
	return out
}

// Chain composes two stages into one.
func Chain[I, M, O any](first Stage[I, M], second Stage[M, O]) Stage[I, O] {
	return func(ctx context.Context, opts []*o.Option, in <-chan I) <-chan O {
		return second(ctx, opts, first(ctx, opts, in))
	}
}

// FanOut applies fn to every input concurrently, at most limit at a time, and
// sends the outputs on the returned channel. Inputs whose fn returns an error
// are dropped and reported through onError if set. The output channel closes
// once every input has been processed.
func FanOut[I, O any](ctx context.Context, in <-chan I, limit int, fn func(ctx context.Context, item I) (O, error), onError func(item I, err error)) <-chan O {
	out := make(chan O)

	go func() {
		defer close(out)

		g, ctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}

		for item := range in {
			g.Go(func() error {
				result, err := fn(ctx, item)
				if err != nil {
					if onError != nil {
						onError(item, err)
					}
					return nil
				}
				select {
				case out <- result:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
		}

		g.Wait()
	}()

	return out
}

// Collect drains a channel into a slice.
func Collect[T any](in <-chan T) []T {
	var results []T
	for item := range in {
		results = append(results, item)
	}
	return results
}
