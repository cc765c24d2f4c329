package batchz

import (
	"time"
)

// Event is a value stamped with the time a processor received it.
type Event[T any] struct {
	Time  time.Time
	Value T
}

// Reason records which condition sealed a batch.
type Reason string

// Batch creation reasons.
const (
	ReasonCount     Reason = "count-reached"
	ReasonTimeout   Reason = "timeout-reached"
	ReasonCompleted Reason = "source-completed"
)

// Batch is a sealed, ordered run of events emitted together.
// The batcher never touches Events again after emitting it.
type Batch[T any] struct {
	Reason Reason
	Events []Event[T]
	Seq    uint64
}

// Len returns the number of events in the batch.
func (b Batch[T]) Len() int {
	return len(b.Events)
}

// Values returns the event values in arrival order.
func (b Batch[T]) Values() []T {
	return values(b.Events)
}

// Group is the ordered run of events that shared a key within one window.
type Group[K comparable, T any] struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Key         K
	Events      []Event[T]
}

// Len returns the number of events in the group.
func (g Group[K, T]) Len() int {
	return len(g.Events)
}

// Values returns the event values in arrival order.
func (g Group[K, T]) Values() []T {
	return values(g.Events)
}

// Pane is the emission set of a single window: one Group per key that
// received events, ordered by the first arrival of each key.
type Pane[K comparable, T any] struct {
	Start  time.Time
	End    time.Time
	Groups []Group[K, T]
	Seq    uint64
}

// Group returns the group for key, if the key received events in this window.
func (p Pane[K, T]) Group(key K) (Group[K, T], bool) {
	for _, g := range p.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group[K, T]{}, false
}

// Count returns the total number of events across the pane's groups.
func (p Pane[K, T]) Count() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Events)
	}
	return n
}

func values[T any](events []Event[T]) []T {
	out := make([]T, len(events))
	for i, e := range events {
		out[i] = e.Value
	}
	return out
}
