package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the generation counters exposed at /metrics.
type Metrics struct {
	registry    *prometheus.Registry
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
}

// New creates Metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_generations_total",
			Help: "Document generations by outcome.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "digest_generation_duration_seconds",
			Help:    "Time spent fetching, normalizing and recording one document.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.generations, m.duration)
	return m
}

// ObserveGeneration records one generation outcome. A nil receiver is a no-op.
func (m *Metrics) ObserveGeneration(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
