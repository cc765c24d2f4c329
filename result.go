package batchz

// Result represents either a successful value or the terminal error of a
// stream. Using one channel for both keeps values and the error ordered
// relative to each other.
type Result[T any] struct {
	value T
	err   *StreamError
}

// NewSuccess creates a Result containing a successful value.
func NewSuccess[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// NewError creates a Result containing an error.
// An err that is already a *StreamError is kept as is.
func NewError[T any](err error, processorName string) Result[T] {
	if se, ok := err.(*StreamError); ok {
		return Result[T]{err: se}
	}
	return Result[T]{err: NewStreamError(err, processorName)}
}

// IsError returns true if this Result contains an error.
func (r Result[T]) IsError() bool {
	return r.err != nil
}

// IsSuccess returns true if this Result contains a successful value.
func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Value returns the successful value.
// Panics if called on a Result containing an error - always check IsSuccess() first.
func (r Result[T]) Value() T {
	if r.err != nil {
		panic("called Value() on Result containing an error")
	}
	return r.value
}

// Error returns the StreamError.
// Returns nil if this Result contains a successful value.
func (r Result[T]) Error() *StreamError {
	return r.err
}

// ValueOr returns the successful value if present, otherwise returns the fallback.
func (r Result[T]) ValueOr(fallback T) T {
	if r.err != nil {
		return fallback
	}
	return r.value
}

// Unpack returns the value and the error as a Go pair.
// The error is a nil interface for successful Results.
func (r Result[T]) Unpack() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
