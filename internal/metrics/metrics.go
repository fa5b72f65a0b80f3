// Package metrics provides Prometheus metrics for replay submission and the WR cache.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "gravbot"

// Lookup results reported by ObserveLookup.
const (
	LookupHit         = "hit"
	LookupMiss        = "miss"
	LookupUnavailable = "unavailable"
)

// Metrics holds the collectors for one process. A nil *Metrics is valid and
// records nothing, so components can take it as an optional dependency.
type Metrics struct {
	registry *prometheus.Registry

	// Submission metrics
	Submissions    *prometheus.CounterVec
	SubmitDuration *prometheus.HistogramVec

	// Fallback store metrics
	FallbackAppends *prometheus.CounterVec

	// WR cache metrics
	CacheRefreshes  *prometheus.CounterVec
	CacheRecords    prometheus.Gauge
	CacheLastFetch  prometheus.Gauge
	RefreshDuration prometheus.Histogram
	Lookups         *prometheus.CounterVec
}

// New registers the collectors on a private registry. Process and Go runtime
// collectors are included so /metrics is useful on its own.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaultNamespace
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replay_submissions_total",
				Help:      "Replay submissions by outcome",
			},
			[]string{"outcome"},
		),
		SubmitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "replay_submit_duration_seconds",
				Help:      "Time spent waiting on the parse endpoint",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 11), // 50ms to ~50s
			},
			[]string{"outcome"},
		),
		FallbackAppends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_appends_total",
				Help:      "Identifiers appended to the local fallback store",
			},
			[]string{"result"},
		),
		CacheRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wr_cache_refreshes_total",
				Help:      "WR dataset fetch attempts by result",
			},
			[]string{"result"},
		),
		CacheRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "wr_cache_records",
				Help:      "Number of records in the current WR snapshot",
			},
		),
		CacheLastFetch: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "wr_cache_last_fetch_timestamp_seconds",
				Help:      "Unix time of the last successful WR fetch",
			},
		),
		RefreshDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "wr_cache_refresh_duration_seconds",
				Help:      "Time spent fetching the WR dataset",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 9), // 50ms to ~13s
			},
		),
		Lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wr_lookups_total",
				Help:      "WR lookups by result",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveSubmission counts one submission outcome and its latency.
func (m *Metrics) ObserveSubmission(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmitDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveAppend counts one fallback store append.
func (m *Metrics) ObserveAppend(err error) {
	if m == nil {
		return
	}
	m.FallbackAppends.WithLabelValues(resultLabel(err)).Inc()
}

// ObserveRefresh records one WR fetch attempt. records and fetchedAt are
// only applied on success.
func (m *Metrics) ObserveRefresh(records int, fetchedAt time.Time, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.CacheRefreshes.WithLabelValues(resultLabel(err)).Inc()
	m.RefreshDuration.Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	m.CacheRecords.Set(float64(records))
	m.CacheLastFetch.Set(float64(fetchedAt.Unix()))
}

// ClearCache zeroes the record gauge after a snapshot is dropped.
func (m *Metrics) ClearCache() {
	if m == nil {
		return
	}
	m.CacheRecords.Set(0)
}

// ObserveLookup counts one WR lookup. result is one of the Lookup constants.
func (m *Metrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(result).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
