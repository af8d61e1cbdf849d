package config

import (
	"fmt"
	"os"
	"time"

	"quickmind/internal/infra/summarizer"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML file. Only keys present in the file override
// the defaults, hence the pointers.
type fileConfig struct {
	Provider *string `yaml:"provider"`
	Ollama   struct {
		URL   *string `yaml:"url"`
		Model *string `yaml:"model"`
	} `yaml:"ollama"`
	Claude struct {
		Model *string `yaml:"model"`
	} `yaml:"claude"`
	OpenAI struct {
		Model *string `yaml:"model"`
	} `yaml:"openai"`
	Summary *summarizer.Preset `yaml:"summary"`
	Model   struct {
		RateLimit     *float64       `yaml:"rate_limit"`
		Timeout       *time.Duration `yaml:"timeout"`
		MaxInputRunes *int           `yaml:"max_input_runes"`
	} `yaml:"model"`
	Chunking struct {
		WindowSize        *int  `yaml:"window_size"`
		Overlap           *int  `yaml:"overlap"`
		MinUsableLength   *int  `yaml:"min_usable_length"`
		RejectShortChunks *bool `yaml:"reject_short_chunks"`
		MaxDepth          *int  `yaml:"max_depth"`
		Parallelism       *int  `yaml:"parallelism"`
	} `yaml:"chunking"`
	Cache struct {
		Enabled       *bool          `yaml:"enabled"`
		Path          *string        `yaml:"path"`
		TTL           *time.Duration `yaml:"ttl"`
		PurgeSchedule *string        `yaml:"purge_schedule"`
	} `yaml:"cache"`
	HTTP struct {
		Addr           *string        `yaml:"addr"`
		MaxBodyBytes   *int64         `yaml:"max_body_bytes"`
		RequestTimeout *time.Duration `yaml:"request_timeout"`
		CORSOrigins    []string       `yaml:"cors_origins"`
	} `yaml:"http"`
	Tracing struct {
		Enabled    *bool    `yaml:"enabled"`
		Endpoint   *string  `yaml:"endpoint"`
		SampleRate *float64 `yaml:"sample_rate"`
	} `yaml:"tracing"`
	Log struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
	Languages []string `yaml:"languages"`
}

// applyFile overlays the YAML file at path. API keys are never read from the
// file; they come from the environment only.
func (c *Config) applyFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if f.Provider != nil {
		c.Model.Provider = summarizer.Provider(*f.Provider)
	}
	set(&c.Model.Ollama.ServerURL, f.Ollama.URL)
	set(&c.Model.Ollama.Model, f.Ollama.Model)
	set(&c.Model.Claude.Model, f.Claude.Model)
	set(&c.Model.OpenAI.Model, f.OpenAI.Model)
	if f.Summary != nil {
		c.Model.Common.Preset = f.Summary.WithDefaults()
	}
	set(&c.Model.Common.RateLimit, f.Model.RateLimit)
	set(&c.Model.Common.Timeout, f.Model.Timeout)
	set(&c.Model.Common.MaxInputRunes, f.Model.MaxInputRunes)

	set(&c.Pipeline.WindowSize, f.Chunking.WindowSize)
	set(&c.Pipeline.Overlap, f.Chunking.Overlap)
	set(&c.Pipeline.MinUsableLength, f.Chunking.MinUsableLength)
	set(&c.Pipeline.RejectShortChunks, f.Chunking.RejectShortChunks)
	set(&c.Pipeline.MaxDepth, f.Chunking.MaxDepth)
	set(&c.Pipeline.Parallelism, f.Chunking.Parallelism)

	set(&c.Cache.Enabled, f.Cache.Enabled)
	set(&c.Cache.Path, f.Cache.Path)
	set(&c.Cache.TTL, f.Cache.TTL)
	set(&c.Cache.PurgeSchedule, f.Cache.PurgeSchedule)

	set(&c.HTTP.Addr, f.HTTP.Addr)
	set(&c.HTTP.MaxBodyBytes, f.HTTP.MaxBodyBytes)
	set(&c.HTTP.RequestTimeout, f.HTTP.RequestTimeout)
	if len(f.HTTP.CORSOrigins) > 0 {
		c.HTTP.CORSOrigins = f.HTTP.CORSOrigins
	}

	set(&c.Tracing.Enabled, f.Tracing.Enabled)
	set(&c.Tracing.Endpoint, f.Tracing.Endpoint)
	set(&c.Tracing.SampleRate, f.Tracing.SampleRate)

	set(&c.Log.Level, f.Log.Level)
	set(&c.Log.Format, f.Log.Format)

	if len(f.Languages) > 0 {
		c.Languages = f.Languages
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
