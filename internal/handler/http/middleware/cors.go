// Package middleware holds HTTP middleware that needs its own configuration.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. An entry ending in "*" matches
	// by prefix, e.g. "chrome-extension://*" for any installed extension.
	AllowedOrigins []string

	// AllowedMethods is sent on preflight. Default: GET, POST, OPTIONS
	AllowedMethods []string

	// AllowedHeaders is sent on preflight. Default: Content-Type, X-Request-ID
	AllowedHeaders []string

	// MaxAge is the preflight cache duration in seconds. Default: 600
	MaxAge int

	Logger *slog.Logger
}

// DefaultCORSConfig returns a config allowing the given origins.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         600,
	}
}

// ParseOrigins splits a comma-separated origin list and validates each entry.
// Origins must carry no path, query or trailing slash.
func ParseOrigins(s string) ([]string, error) {
	var origins []string
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if err := validateOrigin(origin); err != nil {
			return nil, err
		}
		origins = append(origins, origin)
	}
	return origins, nil
}

func validateOrigin(origin string) error {
	if strings.HasSuffix(origin, "://*") {
		origin = strings.TrimSuffix(origin, "*") + "wildcard"
	}
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	switch u.Scheme {
	case "http", "https", "chrome-extension", "moz-extension":
	default:
		return fmt.Errorf("origin must use http, https or an extension scheme: %s", origin)
	}
	if u.Host == "" {
		return fmt.Errorf("origin must include a host: %s", origin)
	}
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("origin must not have trailing slash: %s", origin)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("origin must not include path, query or fragment: %s", origin)
	}
	return nil
}

func (c CORSConfig) allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if prefix, ok := strings.CutSuffix(o, "*"); ok {
			if strings.HasPrefix(origin, prefix) && len(origin) > len(prefix) {
				return true
			}
			continue
		}
		if o == origin {
			return true
		}
	}
	return false
}

// CORS returns middleware that answers preflight requests and sets
// Access-Control headers for allowed origins. Requests without an Origin
// header pass through untouched; disallowed origins get no CORS headers and
// the browser blocks the response.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !config.allowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
