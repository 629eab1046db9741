package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the application side: the result cache,
// the export sink and the mock API.
type Metrics struct {
	// Result cache lookups by backend and outcome
	CacheLookups *prometheus.CounterVec

	// Result cache lookup latency by backend
	CacheLookupLatency *prometheus.HistogramVec

	// Records published by the export sink, by outcome
	ExportedRecords *prometheus.CounterVec

	// Requests served by the mock API, by route and status
	MockRequests *prometheus.CounterVec
}

// New creates and registers all metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_results_cache_lookups_total",
			Help: "Total result cache lookups by backend and outcome",
		}, []string{"backend", "outcome"}), // outcome: "hit", "miss"

		CacheLookupLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "briteverify_results_cache_lookup_duration_seconds",
			Help:    "Duration of result cache lookups by backend",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"backend"}),

		ExportedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_export_records_total",
			Help: "Total bulk results published by the export sink",
		}, []string{"outcome"}), // outcome: "ok", "failed"

		MockRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_mockapi_requests_total",
			Help: "Total requests served by the mock API",
		}, []string{"route", "status"}),
	}
}

// RecordCacheHit counts a hit and its lookup latency.
func (m *Metrics) RecordCacheHit(backend string, d time.Duration) {
	if m != nil {
		m.CacheLookups.WithLabelValues(backend, "hit").Inc()
		m.CacheLookupLatency.WithLabelValues(backend).Observe(d.Seconds())
	}
}

// RecordCacheMiss counts a miss and its lookup latency.
func (m *Metrics) RecordCacheMiss(backend string, d time.Duration) {
	if m != nil {
		m.CacheLookups.WithLabelValues(backend, "miss").Inc()
		m.CacheLookupLatency.WithLabelValues(backend).Observe(d.Seconds())
	}
}

func (m *Metrics) AddExported(ok, failed int) {
	if m == nil {
		return
	}
	m.ExportedRecords.WithLabelValues("ok").Add(float64(ok))
	m.ExportedRecords.WithLabelValues("failed").Add(float64(failed))
}

func (m *Metrics) IncrementMockRequest(route, status string) {
	if m != nil {
		m.MockRequests.WithLabelValues(route, status).Inc()
	}
}
