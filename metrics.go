package batchz

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "batchz"

// Metrics records emitted batches and groups with Prometheus collectors.
type Metrics struct {
	batches   *prometheus.CounterVec
	events    *prometheus.CounterVec
	errors    *prometheus.CounterVec
	batchSize *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "batches_total",
			Help:      "Total number of batches or groups emitted, by reason",
		}, []string{"processor", "reason"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "events_total",
			Help:      "Total number of events emitted inside batches or groups",
		}, []string{"processor"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Total number of streams terminated by an error",
		}, []string{"processor"}),
		batchSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "batch_size",
			Help:      "Number of events per emitted batch or group",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"processor"}),
	}
	for _, c := range []prometheus.Collector{m.batches, m.events, m.errors, m.batchSize} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(processor, reason string, size int) {
	m.batches.WithLabelValues(processor, reason).Inc()
	m.events.WithLabelValues(processor).Add(float64(size))
	m.batchSize.WithLabelValues(processor).Observe(float64(size))
}

// InstrumentBatches wraps sink so every batch and error is recorded under
// the processor label.
func InstrumentBatches[T any](m *Metrics, processor string, sink BatchSink[T]) BatchSink[T] {
	return BatchSinkFuncs[T]{
		Batch: func(b Batch[T]) {
			m.observe(processor, string(b.Reason), b.Len())
			sink.OnBatch(b)
		},
		Complete: sink.OnComplete,
		Error: func(err error) {
			m.errors.WithLabelValues(processor).Inc()
			sink.OnError(err)
		},
	}
}

// InstrumentGroups wraps sink so every group and error is recorded under
// the processor label. Groups are counted with reason "window-closed".
func InstrumentGroups[K comparable, T any](m *Metrics, processor string, sink GroupSink[K, T]) GroupSink[K, T] {
	return GroupSinkFuncs[K, T]{
		Group: func(g Group[K, T]) {
			m.observe(processor, "window-closed", g.Len())
			sink.OnGroup(g)
		},
		Complete: sink.OnComplete,
		Error: func(err error) {
			m.errors.WithLabelValues(processor).Inc()
			sink.OnError(err)
		},
	}
}
