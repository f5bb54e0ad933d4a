package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the discrepancy detector.
type Metrics struct {
	// Alerts raised by source ("survey" or "decision") and severity
	Alerts *prometheus.CounterVec

	// Distribution of recomputed pivot scores
	PivotScores prometheus.Histogram

	// Alert events that could not be published
	PublishFailures prometheus.Counter
}

// New registers the discrepancy metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Alerts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_discrepancy_alerts_total",
			Help: "Discrepancy alerts upserted by source and severity",
		}, []string{"source", "severity"}),

		PivotScores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "polis_discrepancy_pivot_score",
			Help:    "Pivot scores produced by recomputation",
			Buckets: []float64{5, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		PublishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "polis_discrepancy_publish_failures_total",
			Help: "Alert events that failed to publish",
		}),
	}
}

// IncrementAlert records one upserted alert.
func (m *Metrics) IncrementAlert(source, severity string) {
	if m != nil {
		m.Alerts.WithLabelValues(source, severity).Inc()
	}
}

// ObservePivotScore records a recomputed score. Insufficient-data results
// are not observed.
func (m *Metrics) ObservePivotScore(score int) {
	if m != nil {
		m.PivotScores.Observe(float64(score))
	}
}

// IncrementPublishFailure records one failed alert publish.
func (m *Metrics) IncrementPublishFailure() {
	if m != nil {
		m.PublishFailures.Inc()
	}
}
