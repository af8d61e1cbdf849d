package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PurgeMetrics instruments purge runs.
type PurgeMetrics struct {
	RunsTotal            *prometheus.CounterVec
	DurationSeconds      prometheus.Histogram
	RowsPurgedTotal      prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewPurgeMetrics registers the purge metrics with reg.
func NewPurgeMetrics(reg prometheus.Registerer) *PurgeMetrics {
	factory := promauto.With(reg)
	return &PurgeMetrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "quickmind_cache_purge_runs_total",
			Help: "Total number of cache purge runs by status (success/failure)",
		}, []string{"status"}),

		DurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "quickmind_cache_purge_duration_seconds",
			Help:    "Duration of cache purge runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),

		RowsPurgedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "quickmind_cache_purge_rows_total",
			Help: "Total number of expired cache entries deleted",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "quickmind_cache_purge_last_success_timestamp",
			Help: "Unix timestamp of the last successful cache purge",
		}),
	}
}

// RecordRun records one finished run.
func (m *PurgeMetrics) RecordRun(status string, seconds float64, rows int64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.DurationSeconds.Observe(seconds)
	if status == "success" {
		m.RowsPurgedTotal.Add(float64(rows))
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}
