package pipeline

import (
	"time"

	"quickmind/internal/observability/metrics"
)

// MetricsRecorder receives pipeline measurements.
type MetricsRecorder interface {
	RecordChunk(pass Pass, ok bool)
	RecordCombinedLength(runes int)
	RecordRun(kind string, result Outcome, duration time.Duration)
}

// Outcome is the subset of a result that metrics care about.
type Outcome struct {
	Status string
	Levels int
}

// PrometheusRecorder records pipeline metrics in the Prometheus default registry.
type PrometheusRecorder struct{}

// RecordChunk implements MetricsRecorder.
func (PrometheusRecorder) RecordChunk(pass Pass, ok bool) {
	metrics.RecordChunk(string(pass), ok)
}

// RecordCombinedLength implements MetricsRecorder.
func (PrometheusRecorder) RecordCombinedLength(runes int) {
	metrics.RecordCombinedLength(runes)
}

// RecordRun implements MetricsRecorder.
func (PrometheusRecorder) RecordRun(kind string, result Outcome, duration time.Duration) {
	metrics.RecordPipelineRun(kind, result.Status, duration)
	if kind == kindSummarize {
		metrics.RecordReductionLevels(result.Levels)
	}
}

// NoopRecorder discards all measurements.
type NoopRecorder struct{}

func (NoopRecorder) RecordChunk(Pass, bool)                   {}
func (NoopRecorder) RecordCombinedLength(int)                 {}
func (NoopRecorder) RecordRun(string, Outcome, time.Duration) {}
