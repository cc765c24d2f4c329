package batchz

import (
	"context"
	"os"

	"go.uber.org/zap"
)

// NewLogger returns a new zap.SugaredLogger.
// BATCHZ_DEBUG=true switches to the development configuration.
func NewLogger() *zap.SugaredLogger {
	var config zap.Config
	if debugMode, ok := os.LookupEnv("BATCHZ_DEBUG"); ok && debugMode == "true" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.OutputPaths = []string{"stdout"}
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named("batchz").Sugar()
}

type loggerKey struct{}

// WithLogger returns a copy of parent context in which the
// value associated with logger key is the supplied logger.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger in the context, or a new one.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok {
		return logger
	}
	return NewLogger()
}

// LogSink logs everything it receives. It implements both BatchSink and
// GroupSink.
type LogSink[K comparable, T any] struct {
	logger *zap.SugaredLogger
}

// NewLogSink creates a LogSink writing to logger under the given name.
func NewLogSink[K comparable, T any](logger *zap.SugaredLogger, name string) *LogSink[K, T] {
	return &LogSink[K, T]{logger: logger.Named(name)}
}

// OnBatch logs a batch.
func (s *LogSink[K, T]) OnBatch(b Batch[T]) {
	s.logger.Infow("Received batch",
		"seq", b.Seq,
		"reason", string(b.Reason),
		"size", b.Len(),
		"values", b.Values())
}

// OnGroup logs a group.
func (s *LogSink[K, T]) OnGroup(g Group[K, T]) {
	s.logger.Infow("Received group",
		"key", g.Key,
		"size", g.Len(),
		"windowStart", g.WindowStart,
		"values", g.Values())
}

// OnComplete logs completion.
func (s *LogSink[K, T]) OnComplete() {
	s.logger.Info("Completed")
}

// OnError logs the terminal error.
func (s *LogSink[K, T]) OnError(err error) {
	s.logger.Errorw("Stream failed", zap.Error(err))
}
