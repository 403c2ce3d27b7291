package server

import (
	"github.com/Gobd/apispec/openapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts generation runs and their per-route outcomes.
type Metrics struct {
	generations *prometheus.CounterVec
	routes      *prometheus.CounterVec
}

// NewMetrics registers the counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		generations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apispec_generations_total",
				Help: "Total number of document generation runs",
			},
			[]string{"result"},
		),
		routes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apispec_routes_total",
				Help: "Total number of routes processed, by outcome",
			},
			[]string{"status"},
		),
	}
}

// Observe records one run. A nil err counts as a success and adds the
// report to the route counters.
func (m *Metrics) Observe(report openapi.Report, err error) {
	if err != nil {
		m.generations.WithLabelValues("error").Inc()
		return
	}
	m.generations.WithLabelValues("ok").Inc()
	for _, s := range []openapi.Status{openapi.Documented, openapi.Skipped} {
		m.routes.WithLabelValues(string(s)).Add(float64(report.Count(s)))
	}
}
