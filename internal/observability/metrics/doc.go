// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Pipeline metrics (runs, reduction depth, chunk outcomes)
//   - Model call metrics (count, latency, handle readiness)
//   - Result cache and page fetch metrics
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "quickmind/internal/observability/metrics"
//
//	start := time.Now()
//	result := summarizer.SummarizeLongText(ctx, text)
//	metrics.RecordPipelineRun("summarize", result.Status.String(), time.Since(start))
package metrics
