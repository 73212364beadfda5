// Package metrics exposes Prometheus instrumentation for catalog loading,
// title search and similarity matching.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultNoMatch  = "no_match"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibematcher_catalog_loads_total",
			Help: "Catalog load attempts by source and result",
		},
		[]string{"source", "result"},
	)

	CatalogTracks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibematcher_catalog_tracks",
			Help: "Number of tracks in the loaded catalog",
		},
	)

	CatalogDuplicates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibematcher_catalog_duplicates_dropped",
			Help: "Rows dropped as duplicate (title, artist) pairs on load",
		},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibematcher_search_requests_total",
			Help: "Title searches by result",
		},
		[]string{"result"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibematcher_match_requests_total",
			Help: "Similarity queries by result",
		},
		[]string{"result"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vibematcher_match_duration_seconds",
			Help:    "Time spent scoring and ranking one similarity query",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	BatchJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibematcher_batch_jobs_total",
			Help: "Batch match jobs processed by the worker pool, by result",
		},
		[]string{"result"},
	)

	WorkerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vibematcher_worker_queue_depth",
			Help: "Jobs waiting in the worker pool queue",
		},
	)
)

// RecordCatalogLoad records one load attempt.
func RecordCatalogLoad(source, result string, tracks, duplicates int) {
	CatalogLoads.WithLabelValues(source, result).Inc()
	if result == ResultOK {
		CatalogTracks.Set(float64(tracks))
		CatalogDuplicates.Set(float64(duplicates))
	}
}

// RecordSearch records one title search.
func RecordSearch(result string) {
	SearchRequests.WithLabelValues(result).Inc()
}

// RecordMatch records one similarity query and its duration.
func RecordMatch(result string, elapsed time.Duration) {
	MatchRequests.WithLabelValues(result).Inc()
	MatchDuration.Observe(elapsed.Seconds())
}

// RecordBatchJob records one job completed by the worker pool.
func RecordBatchJob(result string) {
	BatchJobs.WithLabelValues(result).Inc()
}
