package http

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"quickmind/internal/handler/http/respond"
)

// ModelStatus reports on the language model handle.
type ModelStatus interface {
	Available() bool
	Warm()
}

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports whether a circuit breaker is rejecting calls.
type BreakerState interface {
	IsOpen() bool
}

// HealthHandler reports process health.
// A model that is still loading degrades the status without failing it;
// an unreachable cache database fails it.
type HealthHandler struct {
	Model    ModelStatus
	Provider string
	DB       *sql.DB      // nil when the result cache is disabled
	Breaker  BreakerState // circuit breaker in front of DB, optional
	Version  string
}

// ServeHTTP returns 200 unless a check is unhealthy, then 503.
// @Summary      Health check
// @Description  Reports model and result cache health.
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{
		"model": h.checkModel(),
	}
	if h.DB != nil {
		checks["cache"] = h.checkDatabase(ctx)
	}

	status := "healthy"
	code := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case "unhealthy":
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		case "degraded":
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) checkModel() CheckStatus {
	details := map[string]any{"provider": h.Provider}
	if h.Model == nil || !h.Model.Available() {
		return CheckStatus{Status: "degraded", Message: "model not loaded", Details: details}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CheckStatus {
	if err := h.DB.PingContext(ctx); err != nil {
		slog.Default().Warn("health: cache database ping failed", slog.Any("error", err))
		return CheckStatus{Status: "unhealthy", Message: "cache database unreachable"}
	}

	stats := h.DB.Stats()
	status, message := "healthy", ""
	if h.Breaker != nil && h.Breaker.IsOpen() {
		status, message = "degraded", "cache circuit breaker open"
	}
	return CheckStatus{
		Status:  status,
		Message: message,
		Details: map[string]any{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	}
}

// ReadyHandler answers readiness probes: 200 once the model is loaded.
// A probe against a cold model starts loading it.
type ReadyHandler struct {
	Model ModelStatus
}

// ServeHTTP returns "ready" or 503.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if h.Model == nil || !h.Model.Available() {
		if h.Model != nil {
			h.Model.Warm()
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
