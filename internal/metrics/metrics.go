// Package metrics exposes Prometheus counters for banner display decisions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "banner"
	subsystem = "display"
)

type Metrics struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
}

// New registers the service metrics on a fresh registry, together with the
// Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		decisions: auto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "decisions_total",
				Help:      "Total number of banner display decisions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveDecision(outcome string) {
	m.decisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
