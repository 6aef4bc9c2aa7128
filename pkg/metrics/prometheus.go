package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	itemsFetched    *prometheus.CounterVec
	adapterFailures *prometheus.CounterVec
	cycleDuration   prometheus.Histogram
	insightsEmitted prometheus.Histogram
	cacheLookups    *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		itemsFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_items_fetched_total",
				Help: "Total number of raw items fetched per source",
			},
			[]string{"source"},
		),
		adapterFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_adapter_failures_total",
				Help: "Total number of source adapter failures",
			},
			[]string{"source"},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptopulse_cycle_duration_seconds",
				Help:    "Duration of aggregation cycles in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		insightsEmitted: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptopulse_insights_emitted",
				Help:    "Insights produced per aggregation cycle",
				Buckets: []float64{0, 1, 2, 3, 4, 5},
			},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_cache_lookups_total",
				Help: "Pulse cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordItemsFetched records items fetched from a source.
func (r *Recorder) RecordItemsFetched(source string, n int) {
	r.itemsFetched.WithLabelValues(source).Add(float64(n))
}

// RecordAdapterFailure records a source adapter failure.
func (r *Recorder) RecordAdapterFailure(source string) {
	r.adapterFailures.WithLabelValues(source).Inc()
}

// RecordCycleDuration records aggregation cycle latency in seconds.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordInsightsEmitted records how many insights a cycle produced.
func (r *Recorder) RecordInsightsEmitted(n int) {
	r.insightsEmitted.Observe(float64(n))
}

// RecordCacheLookup records a pulse cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheLookups.WithLabelValues(outcome).Inc()
}
