package batchz

import (
	"context"
	"time"
)

// KeyFunc derives the grouping key of a value. It must be deterministic and
// free of side effects; an error terminates the stream.
type KeyFunc[K comparable, T any] func(T) (K, error)

// Grouper collects events into per-key groups inside fixed-length windows.
// A window opens with the first event that arrives while no window is open
// and closes when its duration has elapsed; all of its groups are emitted
// together as one Pane.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Grouper[K comparable, T any] struct {
	keyFunc KeyFunc[K, T]
	config  GroupConfig
	name    string
	clock   Clock
}

// GroupByKey creates a processor that groups events by key within time windows.
// Keys that received no events in a window are absent from its Pane, and a
// key never appears twice in the same Pane.
//
// When to use:
//   - Per-tenant or per-category micro-batches
//   - Routing each key's events to a different downstream writer
//   - Periodic per-key summaries
//
// Example:
//
//	// Split orders by category every 5 seconds
//	grouper, err := batchz.GroupByKey(func(o Order) (string, error) {
//		return o.Category, nil
//	}, 5*time.Second, batchz.RealClock)
//	if err != nil {
//		return err
//	}
//
//	for result := range grouper.Process(ctx, orders) {
//		pane := result.Value()
//		for _, g := range pane.Groups {
//			processors[g.Key](g.Values())
//		}
//	}
//
// Parameters:
//   - keyFn: Extracts the grouping key from each value
//   - window: Lifetime of each window
//   - clock: Clock interface for time operations
//
// Returns an error wrapping ErrInvalidConfig if keyFn is nil or window <= 0.
func GroupByKey[K comparable, T any](keyFn KeyFunc[K, T], window time.Duration, clock Clock) (*Grouper[K, T], error) {
	if keyFn == nil {
		return nil, ErrNilKeyFunc
	}
	config := GroupConfig{Window: window}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = RealClock
	}
	return &Grouper[K, T]{
		keyFunc: keyFn,
		config:  config,
		name:    "group-by-key",
		clock:   clock,
	}, nil
}

// GroupBy is GroupByKey for key functions that cannot fail.
func GroupBy[K comparable, T any](keyFn func(T) K, window time.Duration, clock Clock) (*Grouper[K, T], error) {
	if keyFn == nil {
		return nil, ErrNilKeyFunc
	}
	return GroupByKey[K, T](func(v T) (K, error) { return keyFn(v), nil }, window, clock)
}

// WithName sets a custom name for this processor.
func (g *Grouper[K, T]) WithName(name string) *Grouper[K, T] {
	g.name = name
	return g
}

// Config returns the grouper's configuration.
func (g *Grouper[K, T]) Config() GroupConfig {
	return g.config
}

func (g *Grouper[K, T]) Process(ctx context.Context, in <-chan Result[T]) <-chan Result[Pane[K, T]] {
	out := make(chan Result[Pane[K, T]])

	go func() {
		defer close(out)

		arena := newGroupArena[K, T]()
		var (
			timer Timer
			start time.Time
			seq   uint64
		)
		defer func() { stopTimer(timer) }()

		expired := func() <-chan time.Time {
			if timer == nil {
				return nil
			}
			return timer.C()
		}

		fail := func(err error) {
			stopTimer(timer)
			timer = nil
			arena.reset()
			select {
			case out <- NewError[Pane[K, T]](err, g.name):
			case <-ctx.Done():
			}
		}

		flush := func() bool {
			stopTimer(timer)
			timer = nil
			end := start.Add(g.config.Window)
			groups := arena.seal(start, end)
			if len(groups) == 0 || ctx.Err() != nil {
				return ctx.Err() == nil
			}
			seq++
			pane := Pane[K, T]{Start: start, End: end, Groups: groups, Seq: seq}
			select {
			case out <- NewSuccess(pane):
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
					if arena.len() > 0 {
						flush()
					}
					return
				}

				if result.IsError() {
					fail(&UpstreamError{Err: result.Error().Err})
					return
				}

				// A window whose timer fired before this event arrived is
				// closed first, whatever happens to the event.
				if timer != nil {
					select {
					case <-timer.C():
						timer = nil
						if !flush() {
							return
						}
					default:
					}
				}

				value := result.Value()
				key, err := g.keyFunc(value)
				if err != nil {
					fail(&KeyFuncError{Value: value, Err: err})
					return
				}

				opening := timer == nil
				if opening {
					timer = g.clock.NewTimer(g.config.Window)
				}
				now := g.clock.Now()
				if opening {
					start = now
				}
				arena.add(key, Event[T]{Value: value, Time: now})

			case <-expired():
				if !flush() {
					return
				}
			}
		}
	}()

	return out
}

func (g *Grouper[K, T]) Name() string {
	return g.name
}

// groupArena holds the open window's events. Keys map to dense slot indexes
// and every event lands in one shared pool next to its slot, so a window
// with many keys costs a few slices rather than one slice per key. Sealing
// copies the pool into a single backing array partitioned by slot and
// clears the arena in bulk.
type groupArena[K comparable, T any] struct {
	index  map[K]int
	keys   []K
	pool   []Event[T]
	slots  []int
	counts []int
}

func newGroupArena[K comparable, T any]() *groupArena[K, T] {
	return &groupArena[K, T]{index: make(map[K]int)}
}

func (a *groupArena[K, T]) add(key K, e Event[T]) {
	slot, ok := a.index[key]
	if !ok {
		slot = len(a.keys)
		a.index[key] = slot
		a.keys = append(a.keys, key)
		a.counts = append(a.counts, 0)
	}
	a.pool = append(a.pool, e)
	a.slots = append(a.slots, slot)
	a.counts[slot]++
}

// seal returns one Group per slot in slot order, then resets the arena.
func (a *groupArena[K, T]) seal(start, end time.Time) []Group[K, T] {
	if len(a.pool) == 0 {
		a.reset()
		return nil
	}

	backing := make([]Event[T], len(a.pool))
	offsets := make([]int, len(a.keys))
	next := 0
	for slot, n := range a.counts {
		offsets[slot] = next
		next += n
	}

	groups := make([]Group[K, T], len(a.keys))
	for slot, key := range a.keys {
		lo := offsets[slot]
		hi := lo + a.counts[slot]
		groups[slot] = Group[K, T]{
			Key:         key,
			Events:      backing[lo:hi:hi],
			WindowStart: start,
			WindowEnd:   end,
		}
	}

	// Stable counting sort: pool order is arrival order.
	for i, e := range a.pool {
		slot := a.slots[i]
		backing[offsets[slot]] = e
		offsets[slot]++
	}

	a.reset()
	return groups
}

func (a *groupArena[K, T]) reset() {
	clear(a.index)
	clear(a.pool)
	a.keys = a.keys[:0]
	a.pool = a.pool[:0]
	a.slots = a.slots[:0]
	a.counts = a.counts[:0]
}

func (a *groupArena[K, T]) len() int {
	return len(a.pool)
}
