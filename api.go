// Package batchz provides type-safe, channel-based event batching for Go.
// It turns an unbounded stream of events into sealed batches or keyed
// groups, using one of four policies:
//
//   - count: emit every MaxCount events, or everything at completion
//   - timeout: emit everything that arrived within MaxDuration of the first
//     event of the open batch
//   - count-or-timeout: emit when MaxCount is reached or MaxDuration has
//     elapsed since the first event of the open batch, whichever comes first
//   - group-by-key: collect events per key inside a time window and emit all
//     of the window's groups together when the window closes
//
// Every processor reads Results from an input channel and writes Results to
// an output channel. A closed input completes the stream and flushes what
// is open; an error Result terminates it and discards what is open; a
// cancelled context stops everything without flushing.
//
// Basic usage:
//
//	ctx := context.Background()
//	batcher, err := batchz.BatchByCountOrTimeout[string](3, time.Second, batchz.RealClock)
//	if err != nil {
//		return err
//	}
//
//	for result := range batcher.Process(ctx, batchz.FromSlice(ctx, events)) {
//		if result.IsError() {
//			return result.Error()
//		}
//		batch := result.Value()
//		fmt.Printf("batch %d (%s): %v\n", batch.Seq, batch.Reason, batch.Values())
//	}
//
// Time is read from an injectable Clock so tests can drive timers with
// clockz.FakeClock instead of sleeping.
package batchz

import (
	"context"
	"time"
)

// Processor is the core interface for batching components.
// It transforms an input channel of Results into an output channel of Results.
// Processors:
//   - Close the output channel when the input channel is closed
//   - Emit at most one error Result, always as the last value
//   - Stop without emitting when the context is cancelled
type Processor[In, Out any] interface {
	// Process transforms the input channel to an output channel.
	// It closes the output channel when processing is complete.
	Process(ctx context.Context, in <-chan Result[In]) <-chan Result[Out]

	// Name returns a descriptive name for the processor, useful for debugging.
	Name() string
}

// BatchConfig configures the Batcher processor.
type BatchConfig struct {
	// MaxDuration is the maximum time to wait, measured from the first
	// event of the open batch, before emitting it. Zero disables the timer.
	MaxDuration time.Duration

	// MaxCount is the maximum number of events in a batch.
	// Zero means unbounded: batches are sealed by MaxDuration alone, or by
	// completion when MaxDuration is zero too.
	MaxCount int
}

// Validate reports whether the configuration can be used to build a Batcher.
func (c BatchConfig) Validate() error {
	if c.MaxCount < 0 {
		return newConfigError("MaxCount", c.MaxCount, "must be >= 1, or 0 for unbounded")
	}
	if c.MaxDuration < 0 {
		return newConfigError("MaxDuration", c.MaxDuration, "must be > 0")
	}
	return nil
}

// GroupConfig configures the Grouper processor.
type GroupConfig struct {
	// Window is the lifetime of each window, measured from the arrival of
	// the event that opened it.
	Window time.Duration
}

// Validate reports whether the configuration can be used to build a Grouper.
func (c GroupConfig) Validate() error {
	if c.Window <= 0 {
		return newConfigError("Window", c.Window, "must be > 0")
	}
	return nil
}
