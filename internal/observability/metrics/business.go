package metrics

import (
	"time"
)

// RecordPipelineRun records one finished pipeline run.
func RecordPipelineRun(kind, status string, duration time.Duration) {
	PipelineRequestsTotal.WithLabelValues(kind, status).Inc()
	PipelineDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordReductionLevels records the deepest reduction level of a summarization.
func RecordReductionLevels(levels int) {
	ReductionLevels.Observe(float64(levels))
}

// RecordChunk records the outcome of a single map-stage chunk.
func RecordChunk(pass string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "no_output"
	}
	ChunksTotal.WithLabelValues(pass, outcome).Inc()
}

// RecordCombinedLength records the rune length of a combined text.
func RecordCombinedLength(runes int) {
	CombinedTextLength.Observe(float64(runes))
}

// RecordModelCall records one language model call.
func RecordModelCall(provider string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	ModelCallsTotal.WithLabelValues(provider, status).Inc()
	ModelCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetModelHandleReady updates the model handle readiness gauge.
func SetModelHandleReady(ready bool) {
	if ready {
		ModelHandleReady.Set(1)
		return
	}
	ModelHandleReady.Set(0)
}

// RecordCacheLookup records a result cache lookup outcome ("hit", "miss" or "error").
func RecordCacheLookup(outcome string) {
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordPageFetch records a page fetch outcome.
func RecordPageFetch(success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	PageFetchTotal.WithLabelValues(outcome).Inc()
}
