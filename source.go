package batchz

import (
	"context"
	"errors"
	"io"
)

// Source is a pull-based producer of values.
// Next returns io.EOF once the source is exhausted; any other error is
// reported downstream as the stream's terminal error.
type Source[T any] interface {
	Next(ctx context.Context) (T, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(ctx context.Context) (T, error)

// Next calls f(ctx).
func (f SourceFunc[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}

// FromSource pumps src into a Result channel until it returns io.EOF, an
// error, or ctx is cancelled. The channel is closed in every case.
func FromSource[T any](ctx context.Context, src Source[T]) <-chan Result[T] {
	out := make(chan Result[T])

	go func() {
		defer close(out)

		for {
			value, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- NewError[T](err, "source"):
				case <-ctx.Done():
				}
				return
			}

			select {
			case out <- NewSuccess(value):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// FromSlice emits each value in order, then closes the channel.
func FromSlice[T any](ctx context.Context, values []T) <-chan Result[T] {
	i := 0
	return FromSource[T](ctx, SourceFunc[T](func(context.Context) (T, error) {
		if i >= len(values) {
			var zero T
			return zero, io.EOF
		}
		v := values[i]
		i++
		return v, nil
	}))
}

// FromChan wraps a plain value channel. Closing in completes the stream.
func FromChan[T any](ctx context.Context, in <-chan T) <-chan Result[T] {
	return FromSource[T](ctx, SourceFunc[T](func(ctx context.Context) (T, error) {
		var zero T
		select {
		case v, ok := <-in:
			if !ok {
				return zero, io.EOF
			}
			return v, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}))
}
