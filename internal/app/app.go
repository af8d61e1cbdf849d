// Package app assembles the summarizer service from configuration. Both the
// API server and the CLI build their dependencies through it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"quickmind/internal/config"
	"quickmind/internal/infra/adapter/persistence/sqlite"
	"quickmind/internal/infra/db"
	"quickmind/internal/infra/fetcher"
	"quickmind/internal/infra/langdetect"
	"quickmind/internal/infra/summarizer"
	"quickmind/internal/infra/worker"
	"quickmind/internal/observability/tracing"
	pkgconfig "quickmind/internal/pkg/config"
	"quickmind/internal/repository"
	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/usecase/assist"
	"quickmind/internal/usecase/pipeline"
)

// Options select the optional parts of the assembly.
type Options struct {
	// Version is reported on spans and the health endpoint.
	Version string
	// StartPurger schedules the expired-row purge when the cache is enabled.
	// Long-running processes want it; one-shot CLI runs do not.
	StartPurger bool
	// Registerer receives worker and config metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
}

// App holds the assembled components. Close releases them.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Handle  *summarizer.Handle
	Service *assist.Service
	// DB and CacheBreaker are nil when the result cache is disabled.
	DB           *sql.DB
	CacheBreaker *circuitbreaker.DBCircuitBreaker

	purger         *worker.Purger
	shutdownTracer func(context.Context) error
}

// New wires tracing, the model handle, language detection, the page fetcher,
// the optional result cache and the assist service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}

	tracingCfg := cfg.Tracing
	tracingCfg.ServiceVersion = opts.Version
	shutdownTracer, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		Config:         cfg,
		Logger:         logger,
		Handle:         summarizer.NewHandle(summarizer.NewFactory(cfg.Model)),
		shutdownTracer: shutdownTracer,
	}

	detector, err := langdetect.New(cfg.Languages...)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("language detector: %w", err)
	}

	svcOpts := []assist.Option{
		assist.WithLogger(logger),
		assist.WithPageSource(fetcher.NewPageFetcher(cfg.Fetch)),
		assist.WithPipelineOptions(pipeline.WithLogger(logger)),
	}

	if cfg.Cache.Enabled {
		repo, err := a.openCache(ctx, opts)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		svcOpts = append(svcOpts, assist.WithCache(repo))
	}

	svc, err := assist.NewService(a.Handle, detector, assist.Config{
		Pipeline:    cfg.Pipeline,
		Fingerprint: cfg.Fingerprint(),
		Provider:    string(cfg.Model.Provider),
		CacheTTL:    cfg.Cache.TTL,
	}, svcOpts...)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("assist service: %w", err)
	}
	a.Service = svc

	logger.Info("quickmind assembled",
		slog.String("provider", string(cfg.Model.Provider)),
		slog.Int("window_size", cfg.Pipeline.WindowSize),
		slog.Int("overlap", cfg.Pipeline.Overlap),
		slog.Int("max_depth", cfg.Pipeline.MaxDepth),
		slog.Bool("cache_enabled", cfg.Cache.Enabled),
		slog.Bool("tracing_enabled", cfg.Tracing.Enabled))
	return a, nil
}

func (a *App) openCache(ctx context.Context, opts Options) (repository.ResultCacheRepository, error) {
	database, err := db.Open(ctx, a.Config.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.DB = database

	if err := db.MigrateUp(database); err != nil {
		return nil, fmt.Errorf("migrate cache: %w", err)
	}

	a.CacheBreaker = circuitbreaker.NewDBCircuitBreaker(database)
	repo := sqlite.NewResultCacheRepo(a.CacheBreaker)

	if opts.StartPurger {
		base := worker.DefaultConfig()
		base.Schedule = a.Config.Cache.PurgeSchedule
		purgeCfg := worker.LoadConfigFromEnv(base, a.Logger, pkgconfig.NewConfigMetrics(opts.Registerer, "cache_purge"))

		purger, err := worker.NewPurger(repo, purgeCfg, worker.NewPurgeMetrics(opts.Registerer), a.Logger)
		if err != nil {
			return nil, fmt.Errorf("cache purger: %w", err)
		}
		purger.Start()
		a.purger = purger
	}

	a.Logger.Info("result cache enabled",
		slog.String("path", a.Config.Cache.Path),
		slog.Duration("ttl", a.Config.Cache.TTL))
	return repo, nil
}

// Close stops the purger, closes the cache database and flushes spans.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.purger != nil {
		a.purger.Stop(ctx)
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	return errors.Join(errs...)
}
