// Package config loads the service configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"quickmind/internal/handler/http/middleware"
	"quickmind/internal/infra/fetcher"
	"quickmind/internal/infra/langdetect"
	"quickmind/internal/infra/summarizer"
	"quickmind/internal/observability/tracing"
	pkgconfig "quickmind/internal/pkg/config"
	"quickmind/internal/usecase/pipeline"
)

// Config is the complete service configuration.
type Config struct {
	Model     summarizer.Settings
	Pipeline  pipeline.Config
	Cache     CacheConfig
	HTTP      HTTPConfig
	Fetch     fetcher.Config
	Tracing   tracing.Config
	Log       LogConfig
	Languages []string
}

// CacheConfig controls the optional result cache.
type CacheConfig struct {
	// Enabled turns the cache on. Default: false
	Enabled bool
	// Path is the SQLite file. Default: "quickmind-cache.db"
	Path string
	// TTL is how long an entry stays valid. Default: 24h
	TTL time.Duration
	// PurgeSchedule is the cron expression of the expiry purge. Default: "*/30 * * * *"
	PurgeSchedule string
}

// HTTPConfig controls the API server.
type HTTPConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string
	// MaxBodyBytes caps request bodies. Default: 2MB
	MaxBodyBytes int64
	// RequestTimeout bounds one summarize or translate request. Default: 5m
	RequestTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown. Default: 30s
	ShutdownTimeout time.Duration
	// CORSOrigins lists origins allowed to call the API from a browser.
	// Empty disables CORS headers.
	CORSOrigins []string
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: "info"
	Level string
	// Format is json or text. Default: "json"
	Format string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Model: summarizer.Settings{
			Provider: summarizer.ProviderOllama,
			Common:   summarizer.DefaultConfig(),
		},
		Pipeline: pipeline.DefaultConfig(),
		Cache: CacheConfig{
			Path:          "quickmind-cache.db",
			TTL:           24 * time.Hour,
			PurgeSchedule: "*/30 * * * *",
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			MaxBodyBytes:    2 << 20,
			RequestTimeout:  5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		Fetch: fetcher.DefaultConfig(),
		Tracing: tracing.Config{
			Endpoint:   "localhost:4318",
			Insecure:   true,
			SampleRate: 1.0,
		},
		Log:       LogConfig{Level: "info", Format: "json"},
		Languages: append([]string(nil), langdetect.DefaultLanguages...),
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// QUICKMIND_CONFIG when set, then environment variables. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("QUICKMIND_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("page fetch configuration: %w", err)
	}
	cfg.Fetch = fetchCfg

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	m := &c.Model
	m.Provider = summarizer.Provider(getEnvOrDefault("QUICKMIND_PROVIDER", string(m.Provider)))
	m.Ollama.ServerURL = getEnvOrDefault("OLLAMA_URL", m.Ollama.ServerURL)
	m.Ollama.Model = getEnvOrDefault("OLLAMA_MODEL", m.Ollama.Model)
	m.Claude.APIKey = getEnvOrDefault("ANTHROPIC_API_KEY", m.Claude.APIKey)
	m.Claude.Model = getEnvOrDefault("CLAUDE_MODEL", m.Claude.Model)
	m.OpenAI.APIKey = getEnvOrDefault("OPENAI_API_KEY", m.OpenAI.APIKey)
	m.OpenAI.Model = getEnvOrDefault("OPENAI_MODEL", m.OpenAI.Model)
	m.Common.RateLimit = getEnvFloat("MODEL_RATE_LIMIT", m.Common.RateLimit)
	m.Common.Timeout = getEnvDuration("MODEL_TIMEOUT", m.Common.Timeout)
	m.Common.MaxInputRunes = getEnvInt("MODEL_MAX_INPUT_RUNES", m.Common.MaxInputRunes)
	m.Common.Preset.Type = summarizer.SummaryType(getEnvOrDefault("SUMMARY_TYPE", string(m.Common.Preset.Type)))
	m.Common.Preset.Length = summarizer.SummaryLength(getEnvOrDefault("SUMMARY_LENGTH", string(m.Common.Preset.Length)))
	m.Common.Preset.Format = summarizer.SummaryFormat(getEnvOrDefault("SUMMARY_FORMAT", string(m.Common.Preset.Format)))

	p := &c.Pipeline
	p.WindowSize = getEnvInt("CHUNK_WINDOW_SIZE", p.WindowSize)
	p.Overlap = getEnvInt("CHUNK_OVERLAP", p.Overlap)
	p.MinUsableLength = getEnvInt("MIN_USABLE_LENGTH", p.MinUsableLength)
	p.RejectShortChunks = getEnvBool("REJECT_SHORT_CHUNKS", p.RejectShortChunks)
	p.MaxDepth = getEnvInt("REDUCE_MAX_DEPTH", p.MaxDepth)
	p.Parallelism = getEnvInt("MAP_PARALLELISM", p.Parallelism)

	c.Cache.Enabled = getEnvBool("CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Path = getEnvOrDefault("CACHE_PATH", c.Cache.Path)
	c.Cache.TTL = getEnvDuration("CACHE_TTL", c.Cache.TTL)
	c.Cache.PurgeSchedule = getEnvOrDefault("CACHE_PURGE_SCHEDULE", c.Cache.PurgeSchedule)

	c.HTTP.Addr = getEnvOrDefault("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.RequestTimeout = getEnvDuration("HTTP_REQUEST_TIMEOUT", c.HTTP.RequestTimeout)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.HTTP.CORSOrigins = strings.Split(origins, ",")
	}

	c.Tracing.Enabled = getEnvBool("TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.Endpoint = getEnvOrDefault("TRACING_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.SampleRate = getEnvFloat("TRACING_SAMPLE_RATE", c.Tracing.SampleRate)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	if langs := os.Getenv("LANGDETECT_LANGUAGES"); langs != "" {
		c.Languages = splitList(langs)
	}
}

const (
	maxParallelism = 64
	maxReduceDepth = 32
)

// Validate checks configuration correctness and reports every problem.
func (c *Config) Validate() error {
	var errs []error

	if _, err := summarizer.ParseProvider(string(c.Model.Provider)); err != nil {
		errs = append(errs, fmt.Errorf("QUICKMIND_PROVIDER: %w", err))
	}
	switch c.Model.Provider {
	case summarizer.ProviderClaude:
		if c.Model.Claude.APIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude provider"))
		}
	case summarizer.ProviderOpenAI:
		if c.Model.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
	}
	if err := c.Model.Common.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("model: %w", err))
	}
	if err := c.Pipeline.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pipeline: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.Pipeline.Parallelism, 1, maxParallelism); err != nil {
		errs = append(errs, fmt.Errorf("MAP_PARALLELISM: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.Pipeline.MaxDepth, 1, maxReduceDepth); err != nil {
		errs = append(errs, fmt.Errorf("REDUCE_MAX_DEPTH: %w", err))
	}
	// A window the model cannot take whole would be truncated on the direct
	// path and on the final reduction call.
	if c.Model.Common.MaxInputRunes > 0 && c.Pipeline.WindowSize > c.Model.Common.MaxInputRunes {
		errs = append(errs, fmt.Errorf("CHUNK_WINDOW_SIZE (%d) cannot exceed MODEL_MAX_INPUT_RUNES (%d)",
			c.Pipeline.WindowSize, c.Model.Common.MaxInputRunes))
	}

	if c.Cache.Enabled {
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("CACHE_PATH cannot be empty when the cache is enabled"))
		}
		if err := pkgconfig.ValidatePositiveDuration(c.Cache.TTL); err != nil {
			errs = append(errs, fmt.Errorf("CACHE_TTL: %w", err))
		}
		if err := pkgconfig.ValidateCronSchedule(c.Cache.PurgeSchedule); err != nil {
			errs = append(errs, fmt.Errorf("CACHE_PURGE_SCHEDULE: %w", err))
		}
	}

	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("HTTP_ADDR cannot be empty"))
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("max body bytes must be positive"))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.HTTP.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("HTTP_REQUEST_TIMEOUT: %w", err))
	}

	if _, err := middleware.ParseOrigins(strings.Join(c.HTTP.CORSOrigins, ",")); err != nil {
		errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS: %w", err))
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, errors.New("TRACING_ENDPOINT is required when tracing is enabled"))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, errors.New("TRACING_SAMPLE_RATE must be between 0.0 and 1.0"))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	for _, code := range c.Languages {
		if !langdetect.Supported(code) {
			errs = append(errs, fmt.Errorf("LANGDETECT_LANGUAGES: unknown language %q", code))
		}
	}

	return errors.Join(errs...)
}

// Fingerprint identifies everything about the model that changes its output.
// Cached results are only reused under the same fingerprint.
func (c *Config) Fingerprint() string {
	model := ""
	switch c.Model.Provider {
	case summarizer.ProviderOllama:
		model = c.Model.Ollama.Model
	case summarizer.ProviderClaude:
		model = c.Model.Claude.Model
	case summarizer.ProviderOpenAI:
		model = c.Model.OpenAI.Model
	}
	p := c.Model.Common.Preset
	return strings.Join([]string{string(c.Model.Provider), model, string(p.Type), string(p.Length), string(p.Format)}, "|")
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses boolean environment variable with default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvFloat parses float environment variable with default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
