package cache

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instruments the Fetcher. A nil *Metrics records nothing.
type Metrics struct {
	hits             prometheus.Counter
	misses           prometheus.Counter
	retries          prometheus.Counter
	upstreamRequests *prometheus.CounterVec
	upstreamDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "movie_cache_hits_total",
			Help: "Provider lookups served from a fresh cache entry",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "movie_cache_misses_total",
			Help: "Provider lookups that needed a network fetch",
		}),
		retries: factory.NewCounter(prometheus.CounterOpts{
			Name: "movie_upstream_retries_total",
			Help: "Provider requests retried after a failure",
		}),
		upstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "movie_upstream_requests_total",
			Help: "Provider requests by HTTP status (\"error\" for transport failures)",
		}, []string{"status"}),
		upstreamDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "movie_upstream_request_duration_seconds",
			Help:    "Provider request latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) retry() {
	if m != nil {
		m.retries.Inc()
	}
}

// request records one upstream attempt. status 0 means no response.
func (m *Metrics) request(status int, seconds float64) {
	if m == nil {
		return
	}
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(label).Inc()
	m.upstreamDuration.Observe(seconds)
}
