package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ExpiredPurger deletes expired cache entries.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// Purger runs an ExpiredPurger on a cron schedule.
type Purger struct {
	repo    ExpiredPurger
	cfg     PurgeConfig
	metrics *PurgeMetrics
	logger  *slog.Logger
	now     func() time.Time
	cron    *cron.Cron
}

// NewPurger validates cfg and prepares the scheduler. Call Start to begin.
func NewPurger(repo ExpiredPurger, cfg PurgeConfig, metrics *PurgeMetrics, logger *slog.Logger) (*Purger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	p := &Purger{
		repo:    repo,
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
		cron:    cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	if _, err := p.cron.AddFunc(cfg.Schedule, func() { _, _ = p.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	return p, nil
}

// Start runs the scheduler in the background.
func (p *Purger) Start() {
	p.cron.Start()
	p.logger.Info("cache purge scheduled",
		slog.String("schedule", p.cfg.Schedule),
		slog.String("timezone", p.cfg.Timezone))
}

// Stop halts scheduling and waits for a running purge or ctx, whichever ends first.
func (p *Purger) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce purges expired entries now.
func (p *Purger) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	n, err := p.repo.PurgeExpired(ctx, p.now())
	if err != nil {
		p.metrics.RecordRun("failure", time.Since(start).Seconds(), 0)
		p.logger.Error("cache purge failed", slog.Any("error", err))
		return 0, err
	}

	p.metrics.RecordRun("success", time.Since(start).Seconds(), n)
	p.logger.Info("cache purge completed",
		slog.Int64("purged", n),
		slog.Duration("duration", time.Since(start)))
	return n, nil
}
