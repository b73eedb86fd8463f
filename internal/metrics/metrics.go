// Package metrics holds the prometheus collectors of the calendar service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeCancelled   = "cancelled"
	OutcomeNotModified = "not_modified"
)

type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	durationSeconds *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		rendersTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallcal_renders_total",
				Help: "Total number of calendar requests by orientation and outcome",
			},
			[]string{"orientation", "outcome"},
		),
		durationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wallcal_render_duration_seconds",
				Help:    "Time spent rendering and encoding a calendar",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"orientation"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "wallcal_renders_in_flight",
				Help: "Number of renders currently running",
			},
		),
	}
}

// Observe records one finished request. A nil receiver records nothing.
func (m *Metrics) Observe(orientation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.WithLabelValues(orientation, outcome).Inc()
	if outcome == OutcomeOK {
		m.durationSeconds.WithLabelValues(orientation).Observe(d.Seconds())
	}
}

// Started marks a render as running and returns the func that ends it.
func (m *Metrics) Started() func() {
	if m == nil {
		return func() {}
	}
	m.inFlight.Inc()
	return m.inFlight.Dec
}
