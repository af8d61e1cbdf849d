package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"quickmind/internal/app"
	"quickmind/internal/config"
	hhttp "quickmind/internal/handler/http"
	"quickmind/internal/handler/http/middleware"
	"quickmind/internal/observability/logging"

	_ "quickmind/docs" // swagger docs
)

// @title           QuickMind API
// @version         1.0
// @description     Map-reduce summarization and windowed translation of long documents with a language model.

// @BasePath  /

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, app.Options{Version: getVersion(), StartPurger: true})
	if err != nil {
		logger.Error("failed to start", slog.Any("error", err))
		os.Exit(1)
	}

	// Loading a local model can take minutes; start now so the first request
	// does not pay for it.
	a.Handle.Warm()

	if err := runServer(ctx, logger, a); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		closeApp(logger, a)
		os.Exit(1)
	}
	closeApp(logger, a)
}

// initLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and installs it as default.
func initLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or the build value.
func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return version
}

func newHandler(logger *slog.Logger, a *app.App) (http.Handler, error) {
	origins, err := middleware.ParseOrigins(strings.Join(a.Config.HTTP.CORSOrigins, ","))
	if err != nil {
		return nil, err
	}
	if len(origins) > 0 {
		logger.Info("CORS enabled", slog.Any("allowed_origins", origins))
	}

	health := &hhttp.HealthHandler{
		Model:    a.Handle,
		Provider: string(a.Config.Model.Provider),
		DB:       a.DB,
		Version:  getVersion(),
	}
	if a.CacheBreaker != nil {
		health.Breaker = a.CacheBreaker
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Assistant: a.Service,
		Health:    health,
		Logger:         logger,
		MaxBodyBytes:   a.Config.HTTP.MaxBodyBytes,
		RequestTimeout: a.Config.HTTP.RequestTimeout,
		CORSOrigins:    origins,
	}), nil
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, a *app.App) error {
	handler, err := newHandler(logger, a)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func closeApp(logger *slog.Logger, a *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		logger.Error("failed to release resources", slog.Any("error", err))
	}
}
