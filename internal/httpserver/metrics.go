package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	active   *prometheus.GaugeVec
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "oraquery",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "endpoint", "status_code"}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oraquery",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "oraquery",
			Name:      "http_requests_active",
			Help:      "Number of in-flight HTTP requests",
		}, []string{"method", "endpoint"}),
	}
	registry.MustRegister(m.duration, m.total, m.active)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request metrics labelled by the router pattern that
// serves each request, so unmatched paths share one series.
func (m *Metrics) Middleware(router *http.ServeMux) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			endpoint := routeLabel(router, r)
			start := time.Now()

			m.active.WithLabelValues(r.Method, endpoint).Inc()
			defer m.active.WithLabelValues(r.Method, endpoint).Dec()

			wrapped := wrap(w)
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			m.duration.WithLabelValues(r.Method, endpoint, status).Observe(time.Since(start).Seconds())
			m.total.WithLabelValues(r.Method, endpoint, status).Inc()
		})
	}
}

const unmatchedEndpoint = "other"

// routeLabel returns the path of the pattern registered for r, without its
// method prefix.
func routeLabel(router *http.ServeMux, r *http.Request) string {
	_, pattern := router.Handler(r)
	if pattern == "" {
		return unmatchedEndpoint
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}
