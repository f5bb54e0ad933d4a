package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile evolution.
type Metrics struct {
	// Actions applied to vectors by actor role and choice
	Actions *prometheus.CounterVec

	// Actors seeded or synchronised by role and source
	Snapshots *prometheus.CounterVec

	// Duration of one read-modify-append transaction
	RecordLatency prometheus.Histogram
}

// New registers the evolution metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_evolution_actions_total",
			Help: "Revealed actions applied to actor vectors",
		}, []string{"role", "choice"}),

		Snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_evolution_snapshots_total",
			Help: "Vectors written from survey seeds or party centroids",
		}, []string{"role", "source"}),

		RecordLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "polis_evolution_record_duration_seconds",
			Help:    "Duration of recording one action including the store transaction",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}),
	}
}

func (m *Metrics) IncrementAction(role, choice string) {
	if m != nil {
		m.Actions.WithLabelValues(role, choice).Inc()
	}
}

func (m *Metrics) IncrementSnapshot(role, source string) {
	if m != nil {
		m.Snapshots.WithLabelValues(role, source).Inc()
	}
}

func (m *Metrics) ObserveRecordLatency(seconds float64) {
	if m != nil {
		m.RecordLatency.Observe(seconds)
	}
}
