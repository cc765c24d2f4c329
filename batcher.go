package batchz

import (
	"context"
	"time"
)

// Batcher collects events from a stream and groups them into batches based on
// count or time constraints. It emits a batch when either the maximum count is
// reached or the maximum duration expires, whichever comes first. Closing the
// input flushes the open batch; an upstream error or a cancelled context
// discards it.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Batcher[T any] struct {
	config BatchConfig
	name   string
	clock  Clock
}

// NewBatcher creates a processor that groups events into batches.
// Batches are emitted when either the count limit is reached OR the time limit
// expires, whichever comes first. A zero MaxDuration disables the timer. A
// zero MaxCount removes the count limit, so batches are sealed by the timer
// alone or, without one, only when the input closes.
//
// When to use:
//   - Optimizing database writes with bulk operations
//   - Reducing API calls by batching requests
//   - Bounding the latency of a micro-batching stage
//
// Example:
//
//	// Batch up to 1000 events or 5 seconds, whichever comes first
//	batcher, err := batchz.NewBatcher[Event](batchz.BatchConfig{
//		MaxCount:    1000,
//		MaxDuration: 5 * time.Second,
//	}, batchz.RealClock)
//	if err != nil {
//		return err
//	}
//
//	for result := range batcher.Process(ctx, events) {
//		if result.IsError() {
//			return result.Error()
//		}
//		bulkInsert(result.Value().Values())
//	}
//
// Parameters:
//   - config: Batch configuration with count and duration constraints
//   - clock: Clock interface for time operations
//
// Returns an error wrapping ErrInvalidConfig if config does not validate.
func NewBatcher[T any](config BatchConfig, clock Clock) (*Batcher[T], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock
	}
	return &Batcher[T]{
		config: config,
		name:   "batcher",
		clock:  clock,
	}, nil
}

// BatchAll creates a Batcher that emits a single batch when the input closes.
func BatchAll[T any]() *Batcher[T] {
	return &Batcher[T]{name: "batch-all", clock: RealClock}
}

// BatchByCount creates a Batcher that emits every maxCount events.
// A trailing partial batch is emitted when the input closes.
func BatchByCount[T any](maxCount int) (*Batcher[T], error) {
	if maxCount < 1 {
		return nil, newConfigError("MaxCount", maxCount, "must be >= 1")
	}
	b, err := NewBatcher[T](BatchConfig{MaxCount: maxCount}, RealClock)
	if err != nil {
		return nil, err
	}
	b.name = "batch-by-count"
	return b, nil
}

// BatchByCountOrTimeout creates a Batcher that emits when maxCount events have
// accumulated or maxDuration has passed since the first of them arrived.
func BatchByCountOrTimeout[T any](maxCount int, maxDuration time.Duration, clock Clock) (*Batcher[T], error) {
	if maxCount < 1 {
		return nil, newConfigError("MaxCount", maxCount, "must be >= 1")
	}
	if maxDuration <= 0 {
		return nil, newConfigError("MaxDuration", maxDuration, "must be > 0")
	}
	b, err := NewBatcher[T](BatchConfig{MaxCount: maxCount, MaxDuration: maxDuration}, clock)
	if err != nil {
		return nil, err
	}
	b.name = "batch-by-count-or-timeout"
	return b, nil
}

// BatchByTimeout creates a Batcher without a count limit: each batch holds
// everything that arrived within maxDuration of its first event.
func BatchByTimeout[T any](maxDuration time.Duration, clock Clock) (*Batcher[T], error) {
	if maxDuration <= 0 {
		return nil, newConfigError("MaxDuration", maxDuration, "must be > 0")
	}
	b, err := NewBatcher[T](BatchConfig{MaxDuration: maxDuration}, clock)
	if err != nil {
		return nil, err
	}
	b.name = "batch-by-timeout"
	return b, nil
}

// WithName sets a custom name for this processor.
func (b *Batcher[T]) WithName(name string) *Batcher[T] {
	b.name = name
	return b
}

// Config returns the batcher's configuration.
func (b *Batcher[T]) Config() BatchConfig {
	return b.config
}

func (b *Batcher[T]) Process(ctx context.Context, in <-chan Result[T]) <-chan Result[Batch[T]] {
	out := make(chan Result[Batch[T]])

	go func() {
		defer close(out)

		open := &openBatch[T]{capacity: b.config.MaxCount}
		defer open.discard()

		var seq uint64
		emit := func(reason Reason) bool {
			events := open.seal()
			if ctx.Err() != nil {
				return false
			}
			seq++
			batch := Batch[T]{
				Events: events,
				Reason: reason,
				Seq:    seq,
			}
			select {
			case out <- NewSuccess(batch):
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return

			case result, ok := <-in:
				if !ok {
					if open.len() > 0 {
						emit(ReasonCompleted)
					}
					return
				}

				if result.IsError() {
					open.discard()
					select {
					case out <- NewError[Batch[T]](&UpstreamError{Err: result.Error().Err}, b.name):
					case <-ctx.Done():
					}
					return
				}

				// A timer that fired before this event arrived wins.
				if open.fired() {
					if !emit(ReasonTimeout) {
						return
					}
				}

				if open.len() == 0 && b.config.MaxDuration > 0 {
					open.timer = b.clock.NewTimer(b.config.MaxDuration)
				}
				open.add(Event[T]{Value: result.Value(), Time: b.clock.Now()})

				if b.config.MaxCount > 0 && open.len() >= b.config.MaxCount {
					if !emit(ReasonCount) {
						return
					}
				}

			case <-open.expired():
				if open.len() > 0 {
					if !emit(ReasonTimeout) {
						return
					}
				}
			}
		}
	}()

	return out
}

func (b *Batcher[T]) Name() string {
	return b.name
}

// preallocLimit bounds the up-front allocation of a new batch. Larger
// batches grow through append.
const preallocLimit = 64

// openBatch is the batch currently being filled. Either trigger seals it,
// and seal stops the timer so only the first trigger emits.
type openBatch[T any] struct {
	timer    Timer
	events   []Event[T]
	capacity int
}

func (o *openBatch[T]) add(e Event[T]) {
	if len(o.events) == 0 && o.capacity > 0 {
		o.events = make([]Event[T], 0, min(o.capacity, preallocLimit))
	}
	o.events = append(o.events, e)
}

func (o *openBatch[T]) len() int {
	return len(o.events)
}

// expired returns the timer channel, or nil while no timer is running.
func (o *openBatch[T]) expired() <-chan time.Time {
	if o.timer == nil {
		return nil
	}
	return o.timer.C()
}

// fired reports, without blocking, whether the timer of a non-empty batch
// has expired.
func (o *openBatch[T]) fired() bool {
	if o.timer == nil || len(o.events) == 0 {
		return false
	}
	select {
	case <-o.timer.C():
		o.timer = nil
		return true
	default:
		return false
	}
}

// seal hands the accumulated events off and resets for the next batch.
func (o *openBatch[T]) seal() []Event[T] {
	stopTimer(o.timer)
	o.timer = nil
	events := o.events
	o.events = nil
	return events
}

// discard drops the accumulated events without emitting them.
func (o *openBatch[T]) discard() {
	stopTimer(o.timer)
	o.timer = nil
	o.events = nil
}
