package batchz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerContext(t *testing.T) {
	logger := zap.NewNop().Sugar()
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, LoggerFromContext(ctx))
	assert.NotNil(t, LoggerFromContext(context.Background()))
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink[int, string](zap.New(core).Sugar(), "tutorial")

	sink.OnBatch(Batch[string]{
		Events: []Event[string]{{Value: "event-1"}, {Value: "event-2"}},
		Reason: ReasonCount,
		Seq:    1,
	})
	sink.OnGroup(Group[int, string]{Key: 1, Events: []Event[string]{{Value: "event-1"}}})
	sink.OnError(errors.New("boom"))
	sink.OnComplete()

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "Received batch", entries[0].Message)
	assert.Equal(t, "tutorial", entries[0].LoggerName)
	assert.Equal(t, string(ReasonCount), entries[0].ContextMap()["reason"])
	assert.EqualValues(t, 2, entries[0].ContextMap()["size"])
	assert.Equal(t, "Received group", entries[1].Message)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	assert.Equal(t, "Completed", entries[3].Message)
}
