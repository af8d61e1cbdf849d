// Package worker runs the scheduled result cache purge.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"quickmind/internal/pkg/config"
)

// PurgeConfig controls the cache purge schedule.
type PurgeConfig struct {
	// Schedule is a cron expression ("minute hour day month weekday") or descriptor.
	// Default: "*/30 * * * *"
	Schedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// Timeout bounds a single purge run.
	// Default: 1 minute
	Timeout time.Duration
}

// DefaultConfig returns the default purge configuration.
func DefaultConfig() PurgeConfig {
	return PurgeConfig{
		Schedule: "*/30 * * * *",
		Timezone: "UTC",
		Timeout:  time.Minute,
	}
}

// Validate checks every field and reports all problems together.
func (c *PurgeConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.Timeout, time.Second, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv overlays CACHE_PURGE_* variables on base. It is fail-open:
// an invalid value is replaced by the base value, logged and counted, and the
// returned configuration is always valid.
//
// Environment variables:
//   - CACHE_PURGE_SCHEDULE: cron expression
//   - CACHE_PURGE_TIMEZONE: IANA timezone name
//   - CACHE_PURGE_TIMEOUT: duration string, 1s to 1h
func LoadConfigFromEnv(base PurgeConfig, logger *slog.Logger, metrics *config.ConfigMetrics) PurgeConfig {
	cfg := base
	fallbackApplied := false

	warn := func(field, warning string) {
		fallbackApplied = true
		metrics.RecordFallback(field)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	schedule := config.LoadEnvString("CACHE_PURGE_SCHEDULE", base.Schedule, config.ValidateCronSchedule)
	cfg.Schedule = schedule.Value
	if schedule.FallbackApplied {
		warn("schedule", schedule.Warning)
	}

	tz := config.LoadEnvString("CACHE_PURGE_TIMEZONE", base.Timezone, config.ValidateTimezone)
	cfg.Timezone = tz.Value
	if tz.FallbackApplied {
		warn("timezone", tz.Warning)
	}

	timeout := config.LoadEnvDuration("CACHE_PURGE_TIMEOUT", base.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, time.Hour)
	})
	cfg.Timeout = timeout.Value
	if timeout.FallbackApplied {
		warn("timeout", timeout.Warning)
	}

	metrics.RecordLoad(fallbackApplied)
	return cfg
}
