// Package http exposes the summarize and translate use cases over HTTP,
// together with health, readiness and Prometheus endpoints.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"quickmind/internal/handler/http/middleware"
	"quickmind/internal/handler/http/requestid"
	"quickmind/internal/observability/tracing"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RouterConfig wires the handlers and middleware settings.
type RouterConfig struct {
	Assistant      Assistant
	Health         *HealthHandler
	Logger         *slog.Logger
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// NewRouter builds the server handler. Middleware order, outermost first:
// request id, recover, tracing, logging, metrics, CORS, input validation.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	NewAssistHandler(cfg.Assistant, cfg.RequestTimeout).Register(mux)
	if cfg.Health != nil {
		mux.Handle("GET /health", cfg.Health)
		mux.Handle("GET /ready", &ReadyHandler{Model: cfg.Health.Model})
	}
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	corsCfg := middleware.DefaultCORSConfig(cfg.CORSOrigins)
	corsCfg.Logger = cfg.Logger

	return Chain(mux,
		requestid.Middleware,
		Recover(cfg.Logger),
		tracing.Middleware,
		Logging(cfg.Logger),
		MetricsMiddleware,
		middleware.CORS(corsCfg),
		InputValidation(cfg.MaxBodyBytes),
	)
}
