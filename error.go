package batchz

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is matched by every *ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("batchz: invalid configuration")

// ErrNilKeyFunc is returned when a Grouper is built without a key function.
var ErrNilKeyFunc = newConfigError("KeyFunc", nil, "must not be nil")

// ConfigError describes a threshold or function that cannot be used.
// It is returned by constructors before any event is processed.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type ConfigError struct {
	// Field names the offending setting.
	Field string

	// Value is the rejected value.
	Value any

	// Reason explains the constraint that was violated.
	Reason string
}

func newConfigError(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("batchz: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("batchz: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for every ConfigError.
func (*ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// StreamError represents the terminal error of a stream.
// It captures the processor that observed it and when, enabling better
// debugging of where a pipeline stopped.
//
//nolint:govet // fieldalignment: struct layout optimized for readability over memory
type StreamError struct {
	// Err is the underlying error.
	Err error

	// ProcessorName identifies which processor generated the error.
	ProcessorName string

	// Timestamp records when the error occurred.
	Timestamp time.Time
}

// NewStreamError creates a new StreamError with the current timestamp.
func NewStreamError(err error, processorName string) *StreamError {
	return &StreamError{
		Err:           err,
		ProcessorName: processorName,
		Timestamp:     time.Now(),
	}
}

// String returns a human-readable representation of the error.
func (se *StreamError) String() string {
	return fmt.Sprintf("StreamError[%s]: %v (time: %s)",
		se.ProcessorName, se.Err, se.Timestamp.Format(time.RFC3339))
}

// Unwrap returns the underlying error, enabling error wrapping chains.
func (se *StreamError) Unwrap() error {
	return se.Err
}

// Error implements the error interface.
func (se *StreamError) Error() string {
	return se.String()
}

// UpstreamError wraps a failure reported by the event source.
type UpstreamError struct {
	Err error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return "upstream: " + e.Err.Error()
}

// Unwrap returns the source's error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// KeyFuncError reports a key function that failed for an event.
// It terminates the stream the same way an upstream error does.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type KeyFuncError struct {
	// Value is the event value the key function rejected.
	Value any

	// Err is the key function's error.
	Err error
}

// Error implements the error interface.
func (e *KeyFuncError) Error() string {
	return fmt.Sprintf("key function failed for %v: %v", e.Value, e.Err)
}

// Unwrap returns the key function's error.
func (e *KeyFuncError) Unwrap() error {
	return e.Err
}
