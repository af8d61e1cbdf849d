// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds.
	// Buckets reach two minutes because a long document can take several reduction levels.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestsInFlight tracks the number of requests being served
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics track the map-reduce summarization and translation pipelines
var (
	// PipelineRequestsTotal counts finished pipeline runs by kind (summarize/translate) and result status
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmind_pipeline_requests_total",
			Help: "Total number of pipeline runs by kind and result status",
		},
		[]string{"kind", "status"},
	)

	// PipelineDuration measures wall time of a whole pipeline run
	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickmind_pipeline_duration_seconds",
			Help:    "Time taken by one pipeline run",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 11),
		},
		[]string{"kind"},
	)

	// ReductionLevels records how deep the recursive reduction went per request
	ReductionLevels = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickmind_reduction_levels",
			Help:    "Deepest reduction level reached per summarization",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8},
		},
	)

	// ChunksTotal counts map-stage chunk outcomes by pass and outcome (ok/no_output)
	ChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmind_chunks_total",
			Help: "Total number of chunks processed by the map stage",
		},
		[]string{"pass", "outcome"},
	)

	// CombinedTextLength records the rune length of each joined map-stage output
	CombinedTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quickmind_combined_text_runes",
			Help:    "Length of combined partial summaries in runes",
			Buckets: []float64{50, 250, 500, 1000, 2000, 3000, 4000, 8000, 16000},
		},
	)

	// ModelCallsTotal counts language model calls by provider and status
	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmind_model_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"provider", "status"},
	)

	// ModelCallDuration measures a single model call including retries
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quickmind_model_call_duration_seconds",
			Help:    "Time taken by one language model call",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 11),
		},
		[]string{"provider"},
	)

	// ModelHandleReady is 1 when the shared model handle is initialized
	ModelHandleReady = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quickmind_model_handle_ready",
			Help: "Whether the shared language model handle is initialized (1) or not (0)",
		},
	)

	// CacheLookupsTotal counts result cache lookups by outcome (hit/miss/error)
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmind_cache_lookups_total",
			Help: "Total number of result cache lookups",
		},
		[]string{"outcome"},
	)

	// PageFetchTotal counts page text selections by outcome
	PageFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickmind_page_fetch_total",
			Help: "Total number of page fetches for text selection",
		},
		[]string{"outcome"},
	)
)
