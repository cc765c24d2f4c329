package batchz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

func TestMetrics_InstrumentBatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	b, err := BatchByCount[string](4)
	require.NoError(t, err)

	inner := &recordingSink{}
	sink := InstrumentBatches[string](m, "orders", inner)
	require.NoError(t, DrainBatches(ctx, b.Process(ctx, FromSlice(ctx, eventValues(10))), sink))

	assert.Len(t, inner.batches, 3)
	assert.Equal(t, 1, inner.completed)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.batches.WithLabelValues("orders", string(ReasonCount))))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.batches.WithLabelValues("orders", string(ReasonCompleted))))
	assert.Equal(t, float64(10), testutil.ToFloat64(m.events.WithLabelValues("orders")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.batchSize))
}

func TestMetrics_InstrumentGroupsCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	g, err := GroupBy(parity, time.Hour, clockz.NewFakeClock())
	require.NoError(t, err)

	in := make(chan Result[int], 2)
	in <- NewSuccess(1)
	in <- NewError[int](errors.New("boom"), "source")
	close(in)

	inner := &recordingSink{}
	err = DrainPanes(ctx, g.Process(ctx, in), InstrumentGroups[int, int](m, "parity", inner))

	require.Error(t, err)
	assert.Len(t, inner.errs, 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errors.WithLabelValues("parity")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.events.WithLabelValues("parity")))
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
