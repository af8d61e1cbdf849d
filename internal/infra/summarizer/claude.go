package summarizer

import (
	"context"
	"errors"
	"fmt"

	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// claudeBackend calls Anthropic's Messages API.
type claudeBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int
	apiKey    string
}

func (c *claudeBackend) provider() Provider { return ProviderClaude }

func (c *claudeBackend) complete(ctx context.Context, system, input string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(input)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: err.Error()})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", errors.New("claude api returned empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", errors.New("claude api returned unexpected response type")
	}
	return textBlock.Text, nil
}

// probe only checks credentials locally; the Messages API has no free ping.
func (c *claudeBackend) probe(context.Context) error {
	if c.apiKey == "" {
		return errors.New("ANTHROPIC_API_KEY is not set")
	}
	return nil
}

// NewClaude creates a Primitive backed by Anthropic's Claude API.
func NewClaude(cc ClaudeConfig, cfg Config) (*Primitive, error) {
	if cc.Model == "" {
		cc.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cc.APIKey),
		option.WithMaxRetries(0),
	}
	if cc.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cc.BaseURL))
	}

	b := &claudeBackend{
		client:    anthropic.NewClient(opts...),
		model:     cc.Model,
		maxTokens: cfg.MaxOutputTokens,
		apiKey:    cc.APIKey,
	}
	return newPrimitive(b, cfg, circuitbreaker.ModelConfig(string(ProviderClaude)), retry.ModelAPIConfig())
}
