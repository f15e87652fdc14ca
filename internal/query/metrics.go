package query

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oraquery",
			Name:      "executions_total",
			Help:      "Statements executed, by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oraquery",
			Name:      "execution_duration_seconds",
			Help:      "Time from connection open to close for one statement.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
	}
	reg.MustRegister(m.executions, m.duration)
	return m
}

// observe is a no-op on a nil receiver so the gateway works without metrics.
func (m *metrics) observe(op Operation, err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	label := string(op)
	if op != OpSelect && !op.IsMutation() {
		// bound the label cardinality
		label = "OTHER"
	}

	m.executions.WithLabelValues(label, outcome(err)).Inc()
	m.duration.WithLabelValues(label).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConnection):
		return "connection_error"
	default:
		return "execution_error"
	}
}
