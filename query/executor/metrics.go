package executor

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by MetricsMiddleware.
type Metrics struct {
	Duration *prometheus.HistogramVec
	Errors   *prometheus.CounterVec
	Rows     *prometheus.CounterVec
}

// NewMetrics creates and registers the query collectors under namespace.
// A nil registerer skips registration.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of executed queries.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"op"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Number of failed queries.",
		}, []string{"op"}),
		Rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_rows_total",
			Help:      "Rows read or affected by queries.",
		}, []string{"op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Duration, m.Errors, m.Rows} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// MetricsMiddleware records duration, errors and row counts per operation.
func MetricsMiddleware(m *Metrics) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		m.Duration.WithLabelValues(event.Op).Observe(event.Duration.Seconds())
		if err != nil {
			m.Errors.WithLabelValues(event.Op).Inc()
			return err
		}
		m.Rows.WithLabelValues(event.Op).Add(float64(event.Rows))
		return nil
	}
}
