package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds cross-cutting counters shared by every module.
type Metrics struct {
	ClampViolations *prometheus.CounterVec
	StoreFailures   *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers the shared metrics on reg. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClampViolations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_clamp_violations_total",
			Help: "Upstream scalars that arrived outside their contract range and were clamped",
		}, []string{"source", "axis"}),
		StoreFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_store_failures_total",
			Help: "Store reads or writes that failed and aborted an operation",
		}, []string{"operation"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "polis_cache_lookups_total",
			Help: "Read-through cache lookups by outcome",
		}, []string{"cache", "outcome"}),
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polis_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementClampViolation records one clamped scalar.
func (m *Metrics) IncrementClampViolation(source, axis string) {
	if m != nil {
		m.ClampViolations.WithLabelValues(source, axis).Inc()
	}
}

// IncrementStoreFailure records an aborted store operation.
func (m *Metrics) IncrementStoreFailure(operation string) {
	if m != nil {
		m.StoreFailures.WithLabelValues(operation).Inc()
	}
}

// IncrementCacheLookup records a cache hit or miss.
func (m *Metrics) IncrementCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
	}
}
