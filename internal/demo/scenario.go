// Package demo replays the buffering and grouping walkthroughs on a live
// event stream and logs every batch and group.
package demo

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zoobzio/batchz"
)

// Env is what a scenario runs against.
type Env struct {
	Config  Config
	Clock   batchz.Clock
	Logger  *zap.SugaredLogger
	Metrics *batchz.Metrics
}

// Scenario is one named walkthrough.
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env Env) error
}

var scenarios = map[string]Scenario{
	"buffer-all": {
		Name:        "buffer-all",
		Description: "buffer the whole stream into one batch, emitted at completion",
		Run: func(ctx context.Context, env Env) error {
			return runBatcher(ctx, env, "buffer-all", batchz.BatchAll[string]())
		},
	},
	"buffer-count": {
		Name:        "buffer-count",
		Description: "emit a batch every 5 events",
		Run: func(ctx context.Context, env Env) error {
			b, err := batchz.BatchByCount[string](5)
			if err != nil {
				return err
			}
			return runBatcher(ctx, env, "buffer-count", b)
		},
	},
	"buffer-timeout": {
		Name:        "buffer-timeout",
		Description: "emit a batch every max-count events or max-duration, whichever comes first",
		Run: func(ctx context.Context, env Env) error {
			b, err := batchz.BatchByCountOrTimeout[string](env.Config.MaxCount, env.Config.MaxDuration, env.Clock)
			if err != nil {
				return err
			}
			return runBatcher(ctx, env, "buffer-timeout", b)
		},
	},
	"window-time": {
		Name:        "window-time",
		Description: "emit everything that arrived within window-period of each window's first event",
		Run: func(ctx context.Context, env Env) error {
			b, err := batchz.BatchByTimeout[string](env.Config.WindowPeriod, env.Clock)
			if err != nil {
				return err
			}
			return runBatcher(ctx, env, "window-time", b)
		},
	},
	"window-timeout": {
		Name:        "window-timeout",
		Description: "close a window every max-count events or max-duration, whichever comes first",
		Run: func(ctx context.Context, env Env) error {
			b, err := batchz.NewBatcher[string](batchz.BatchConfig{
				MaxCount:    env.Config.MaxCount,
				MaxDuration: env.Config.MaxDuration,
			}, env.Clock)
			if err != nil {
				return err
			}
			return runBatcher(ctx, env, "window-timeout", b)
		},
	},
	"group-parity": {
		Name:        "group-parity",
		Description: "group integers by parity within each window",
		Run: func(ctx context.Context, env Env) error {
			g, err := batchz.GroupBy(func(i int) int { return i % 2 }, env.Config.Window, env.Clock)
			if err != nil {
				return err
			}
			src := Interval(env.Clock, env.Config.GroupInterval, env.Config.GroupCount, func(i int) int { return i })
			var sink batchz.GroupSink[int, int] = batchz.NewLogSink[int, int](env.Logger, "group-parity")
			if env.Metrics != nil {
				sink = batchz.InstrumentGroups(env.Metrics, "group-parity", sink)
			}
			return g.WithName("group-parity").Run(ctx, src, sink)
		},
	},
}

func runBatcher(ctx context.Context, env Env, name string, b *batchz.Batcher[string]) error {
	src := Interval(env.Clock, env.Config.Interval, env.Config.Count, EventName)
	var sink batchz.BatchSink[string] = batchz.NewLogSink[string, string](env.Logger, name)
	if env.Metrics != nil {
		sink = batchz.InstrumentBatches(env.Metrics, name, sink)
	}
	return b.WithName(name).Run(ctx, src, sink)
}

// Names returns the registered scenario names in order.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the scenario registered under name.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// RunAll runs the named scenarios concurrently and returns the first error.
// Unknown names fail before anything starts.
func RunAll(ctx context.Context, env Env, names ...string) error {
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, ok := Lookup(name)
		if !ok {
			return fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, s)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, s := range selected {
		g.Go(func() error {
			env.Logger.Infow("Starting scenario", "scenario", s.Name)
			if err := s.Run(ctx, env); err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
