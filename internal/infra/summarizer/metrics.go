package summarizer

import (
	"sync"
	"time"

	"quickmind/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ModelMetricsRecorder defines the interface for recording model call metrics.
// Tests inject a fake recorder instead of Prometheus.
type ModelMetricsRecorder interface {
	// RecordCall records one finished call, retries included.
	RecordCall(provider Provider, success bool, duration time.Duration)

	// RecordOutputLength records the rune length of a model response.
	RecordOutputLength(kind string, length int)

	// RecordTruncated counts inputs cut down to MaxInputRunes.
	RecordTruncated(provider Provider)
}

// PrometheusModelMetrics implements ModelMetricsRecorder using Prometheus metrics.
type PrometheusModelMetrics struct {
	outputLength     *prometheus.HistogramVec
	truncatedCounter *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusModelMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec gets an existing histogram vector or creates a new one if it doesn't exist
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusModelMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusModelMetrics() *PrometheusModelMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusModelMetrics{
			outputLength: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "quickmind_model_output_runes",
				Help:    "Distribution of model response lengths in runes",
				Buckets: []float64{25, 50, 100, 250, 500, 1000, 2000, 4000},
			}, []string{"kind"}),
			truncatedCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "quickmind_model_input_truncated_total",
				Help: "Total number of model inputs truncated to the configured maximum",
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall implements ModelMetricsRecorder.RecordCall
func (p *PrometheusModelMetrics) RecordCall(provider Provider, success bool, duration time.Duration) {
	metrics.RecordModelCall(string(provider), success, duration)
}

// RecordOutputLength implements ModelMetricsRecorder.RecordOutputLength
func (p *PrometheusModelMetrics) RecordOutputLength(kind string, length int) {
	p.outputLength.WithLabelValues(kind).Observe(float64(length))
}

// RecordTruncated implements ModelMetricsRecorder.RecordTruncated
func (p *PrometheusModelMetrics) RecordTruncated(provider Provider) {
	p.truncatedCounter.WithLabelValues(string(provider)).Inc()
}
