package summarizer

import (
	"errors"
	"fmt"
	"time"
)

// Provider names the backend a Primitive talks to.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderNoOp   Provider = "noop"
)

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderOllama, ProviderClaude, ProviderOpenAI, ProviderNoOp:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q (want ollama, claude, openai or noop)", s)
	}
}

// SummaryType selects the shape of a summary.
type SummaryType string

const (
	TypeKeyPoints SummaryType = "key-points"
	TypeTLDR      SummaryType = "tldr"
	TypeTeaser    SummaryType = "teaser"
	TypeHeadline  SummaryType = "headline"
)

// SummaryLength selects how much a summary may say.
type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

// SummaryFormat selects the markup of a summary.
type SummaryFormat string

const (
	FormatMarkdown  SummaryFormat = "markdown"
	FormatPlainText SummaryFormat = "plain-text"
)

// Preset bundles the summary style options.
type Preset struct {
	Type   SummaryType   `yaml:"type" json:"type"`
	Length SummaryLength `yaml:"length" json:"length"`
	Format SummaryFormat `yaml:"format" json:"format"`
}

// DefaultPreset returns key points, short, markdown.
func DefaultPreset() Preset {
	return Preset{Type: TypeKeyPoints, Length: LengthShort, Format: FormatMarkdown}
}

// Validate checks every option against its allowed values.
func (p Preset) Validate() error {
	var errs []error
	switch p.Type {
	case TypeKeyPoints, TypeTLDR, TypeTeaser, TypeHeadline:
	default:
		errs = append(errs, fmt.Errorf("invalid summary type %q", p.Type))
	}
	switch p.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		errs = append(errs, fmt.Errorf("invalid summary length %q", p.Length))
	}
	switch p.Format {
	case FormatMarkdown, FormatPlainText:
	default:
		errs = append(errs, fmt.Errorf("invalid summary format %q", p.Format))
	}
	return errors.Join(errs...)
}

// WithDefaults fills empty options from DefaultPreset.
func (p Preset) WithDefaults() Preset {
	d := DefaultPreset()
	if p.Type == "" {
		p.Type = d.Type
	}
	if p.Length == "" {
		p.Length = d.Length
	}
	if p.Format == "" {
		p.Format = d.Format
	}
	return p
}

// Config holds settings shared by every backend.
type Config struct {
	Preset Preset

	// MaxInputRunes caps the input of one call. Longer input is truncated.
	MaxInputRunes int

	// MaxOutputTokens caps the response length.
	MaxOutputTokens int

	// Timeout is the maximum duration of one call, retries included.
	Timeout time.Duration

	// RateLimit is the sustained number of calls per second; Burst the bucket size.
	RateLimit float64
	Burst     int
}

// DefaultConfig returns the shared defaults.
func DefaultConfig() Config {
	return Config{
		Preset:          DefaultPreset(),
		MaxInputRunes:   12000,
		MaxOutputTokens: 1024,
		Timeout:         60 * time.Second,
		RateLimit:       4,
		Burst:           4,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c Config) Validate() error {
	var errs []error
	if err := c.Preset.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxInputRunes <= 0 {
		errs = append(errs, fmt.Errorf("max input runes must be positive, got %d", c.MaxInputRunes))
	}
	if c.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("max output tokens must be positive, got %d", c.MaxOutputTokens))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %v", c.Timeout))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("rate limit must be positive, got %v", c.RateLimit))
	}
	if c.Burst <= 0 {
		errs = append(errs, fmt.Errorf("burst must be positive, got %d", c.Burst))
	}
	return errors.Join(errs...)
}

// OllamaConfig configures the local Ollama backend.
type OllamaConfig struct {
	ServerURL string
	Model     string
}

// ClaudeConfig configures the Anthropic backend.
type ClaudeConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
}

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for compatible servers and tests
}

// Settings selects and configures one backend.
type Settings struct {
	Provider Provider
	Common   Config
	Ollama   OllamaConfig
	Claude   ClaudeConfig
	OpenAI   OpenAIConfig
}
