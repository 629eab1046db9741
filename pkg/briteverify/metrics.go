package briteverify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for API calls made by a Client.
type Metrics struct {
	// Request latency by endpoint and status class
	RequestLatency *prometheus.HistogramVec

	// Requests answered 429 and retried
	RateLimited *prometheus.CounterVec

	// Failed calls by endpoint and error category
	Failures *prometheus.CounterVec

	// Result pages fetched, by outcome ("ok", "failed")
	ResultPages *prometheus.CounterVec

	// Bulk results served from the result cache
	CacheHits prometheus.Counter
}

// NewMetrics registers client metrics with reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "briteverify_client_request_duration_seconds",
			Help:    "Duration of BriteVerify API requests by endpoint and status",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint", "status"}),

		RateLimited: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_client_rate_limited_total",
			Help: "Total requests answered with 429 and retried",
		}, []string{"endpoint"}),

		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_client_failures_total",
			Help: "Total failed API calls by endpoint and error category",
		}, []string{"endpoint", "category"}),

		ResultPages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "briteverify_client_result_pages_total",
			Help: "Total bulk result pages fetched by outcome",
		}, []string{"outcome"}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "briteverify_client_result_cache_hits_total",
			Help: "Total bulk result requests served from the result cache",
		}),
	}
}

func (m *Metrics) ObserveRequest(endpoint, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(endpoint, status).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementRateLimited(endpoint string) {
	if m != nil {
		m.RateLimited.WithLabelValues(endpoint).Inc()
	}
}

func (m *Metrics) IncrementFailure(endpoint string, category ErrorCategory) {
	if m != nil {
		m.Failures.WithLabelValues(endpoint, string(category)).Inc()
	}
}

func (m *Metrics) IncrementResultPage(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.ResultPages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}
