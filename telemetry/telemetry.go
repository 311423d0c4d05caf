// Package telemetry exposes Prometheus counters and gauges for a running
// scheduler, matching the promauto usage in the teacher repository's
// Chapter13/prom_http service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and gauges a scheduler reports into.
type Metrics struct {
	FiringsTotal  *prometheus.CounterVec
	ActiveActors  prometheus.Gauge
	QueueDepth    prometheus.Gauge
	FailuresTotal prometheus.Counter
}

// NewMetrics registers and returns a fresh Metrics set against the
// default Prometheus registry.
func NewMetrics(schedulerName string) *Metrics {
	labels := prometheus.Labels{"scheduler": schedulerName}
	return &Metrics{
		FiringsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "flowgraph_firings_total",
			Help:        "Total number of actor firings completed.",
			ConstLabels: labels,
		}, []string{"actor"}),
		ActiveActors: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "flowgraph_active_actors",
			Help:        "Number of actors currently executing a firing.",
			ConstLabels: labels,
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "flowgraph_queue_depth",
			Help:        "Number of deliveries currently pending dispatch.",
			ConstLabels: labels,
		}),
		FailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "flowgraph_failures_total",
			Help:        "Total number of actor firings that returned an error.",
			ConstLabels: labels,
		}),
	}
}

// RecordFiring increments the per-actor firing counter.
func (m *Metrics) RecordFiring(actor string) {
	m.FiringsTotal.WithLabelValues(actor).Inc()
}

// RecordFailure increments the total failed-firing counter. actor is
// accepted for symmetry with RecordFiring even though FailuresTotal carries
// no per-actor label.
func (m *Metrics) RecordFailure(actor string) {
	m.FailuresTotal.Inc()
}

// SetQueueDepth reports the current number of deliveries pending dispatch.
func (m *Metrics) SetQueueDepth(n int) {
	m.QueueDepth.Set(float64(n))
}

// SetActiveActors reports the current number of actors executing a firing.
func (m *Metrics) SetActiveActors(n int) {
	m.ActiveActors.Set(float64(n))
}

// Handler returns the HTTP handler Prometheus should scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}
