// Package respond writes JSON responses and maps errors to user-safe bodies.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"quickmind/internal/handler/http/requestid"
	"quickmind/internal/observability/logging"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// Error writes err as a JSON error body.
// An AppError contributes its code and user message. Anything else becomes a
// 500 with a generic message; the details only reach the log, sanitized.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	logger := logging.WithRequestID(r.Context(), logging.FromContext(r.Context()))

	code := http.StatusInternalServerError
	msg := "internal server error"

	var appErr *AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		msg = appErr.UserMsg
		if appErr.Err != nil {
			level := slog.LevelInfo
			if code >= 500 {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "request failed",
				slog.Int("code", code),
				slog.String("user_message", msg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
	} else {
		logger.Error("internal server error",
			slog.Int("code", code),
			slog.String("error", SanitizeError(err)))
	}

	JSON(w, code, ErrorBody{Error: msg, RequestID: requestid.FromContext(r.Context())})
}
