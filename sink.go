package batchz

import (
	"context"
)

// BatchSink consumes the output of a Batcher.
// Exactly one of OnComplete or OnError ends a run; neither is called when
// the run is cancelled.
type BatchSink[T any] interface {
	OnBatch(Batch[T])
	OnComplete()
	OnError(error)
}

// GroupSink consumes the output of a Grouper. OnGroup is called for every
// group of a pane, in pane order, before the next pane is delivered.
type GroupSink[K comparable, T any] interface {
	OnGroup(Group[K, T])
	OnComplete()
	OnError(error)
}

// BatchSinkFuncs implements BatchSink with optional function fields.
// Nil fields are skipped.
type BatchSinkFuncs[T any] struct {
	Batch    func(Batch[T])
	Complete func()
	Error    func(error)
}

// OnBatch calls f.Batch.
func (f BatchSinkFuncs[T]) OnBatch(b Batch[T]) {
	if f.Batch != nil {
		f.Batch(b)
	}
}

// OnComplete calls f.Complete.
func (f BatchSinkFuncs[T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}

// OnError calls f.Error.
func (f BatchSinkFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// GroupSinkFuncs implements GroupSink with optional function fields.
// Nil fields are skipped.
type GroupSinkFuncs[K comparable, T any] struct {
	Group    func(Group[K, T])
	Complete func()
	Error    func(error)
}

// OnGroup calls f.Group.
func (f GroupSinkFuncs[K, T]) OnGroup(g Group[K, T]) {
	if f.Group != nil {
		f.Group(g)
	}
}

// OnComplete calls f.Complete.
func (f GroupSinkFuncs[K, T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}

// OnError calls f.Error.
func (f GroupSinkFuncs[K, T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// DrainBatches delivers every result of in to sink and returns the stream's
// terminal error: the upstream error, ctx.Err() if the run was cancelled,
// or nil on completion.
func DrainBatches[T any](ctx context.Context, in <-chan Result[Batch[T]], sink BatchSink[T]) error {
	for result := range in {
		if result.IsError() {
			err := result.Error()
			sink.OnError(err)
			drain(in)
			return err
		}
		sink.OnBatch(result.Value())
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sink.OnComplete()
	return nil
}

// DrainPanes delivers every group of every pane of in to sink.
// It returns like DrainBatches.
func DrainPanes[K comparable, T any](ctx context.Context, in <-chan Result[Pane[K, T]], sink GroupSink[K, T]) error {
	for result := range in {
		if result.IsError() {
			err := result.Error()
			sink.OnError(err)
			drain(in)
			return err
		}
		for _, g := range result.Value().Groups {
			sink.OnGroup(g)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	sink.OnComplete()
	return nil
}

// Run pulls from src until it is exhausted, fails or ctx is cancelled,
// batching into sink. The source is cancelled once the batcher stops.
func (b *Batcher[T]) Run(ctx context.Context, src Source[T], sink BatchSink[T]) error {
	srcCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	return DrainBatches(ctx, b.Process(ctx, FromSource(srcCtx, src)), sink)
}

// Run pulls from src until it is exhausted, fails or ctx is cancelled,
// grouping into sink.
func (g *Grouper[K, T]) Run(ctx context.Context, src Source[T], sink GroupSink[K, T]) error {
	srcCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	return DrainPanes(ctx, g.Process(ctx, FromSource(srcCtx, src)), sink)
}

func drain[T any](in <-chan T) {
	for range in {
	}
}
