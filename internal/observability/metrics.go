package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/riodino14/edupulse-backend/internal/dataset"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	datasetRows           prometheus.Gauge
	datasetMalformed      prometheus.Gauge
	datasetAbsent         prometheus.Gauge
	datasetOverScale      prometheus.Gauge
	datasetSkippedRows    prometheus.Gauge
	datasetReloadsTotal   *prometheus.CounterVec
	dashboardCacheLookups *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edupulse_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"scope", "method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edupulse_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"scope", "method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edupulse_api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"scope", "method", "route", "status"})

		datasetRows = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edupulse_dataset_grade_rows",
			Help: "Grade rows in the served dataset snapshot.",
		})
		datasetMalformed = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edupulse_dataset_malformed_grades",
			Help: "Grade cells that could not be parsed as numbers.",
		})
		datasetAbsent = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edupulse_dataset_absent_grades",
			Help: "Grade cells that were empty.",
		})
		datasetOverScale = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edupulse_dataset_over_scale_grades",
			Help: "Grades above the 0-100 scale before capping.",
		})
		datasetSkippedRows = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "edupulse_dataset_skipped_rows",
			Help: "Grade rows dropped for an unreadable student id.",
		})
		datasetReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edupulse_dataset_reloads_total",
			Help: "Dataset snapshot swaps by source and outcome.",
		}, []string{"source", "outcome"})

		dashboardCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edupulse_cache_lookups_total",
			Help: "Read-through cache lookups by cache and result.",
		}, []string{"cache", "result"})

		prometheus.MustRegister(
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			datasetRows, datasetMalformed, datasetAbsent, datasetOverScale, datasetSkippedRows,
			datasetReloadsTotal, dashboardCacheLookups,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// DatasetReloads exposes the counter of snapshot swaps.
func DatasetReloads() *prometheus.CounterVec {
	RegisterMetrics()
	return datasetReloadsTotal
}

// CacheLookups exposes the counter of cache hits and misses.
func CacheLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardCacheLookups
}

// RecordDatasetQuality publishes the quality counters of a freshly served snapshot.
func RecordDatasetQuality(quality dataset.Quality) {
	RegisterMetrics()
	datasetRows.Set(float64(quality.Rows))
	datasetMalformed.Set(float64(quality.MalformedGrade))
	datasetAbsent.Set(float64(quality.AbsentGrades))
	datasetOverScale.Set(float64(quality.OverScale))
	datasetSkippedRows.Set(float64(quality.SkippedRows))
}
