package summarizer

import (
	"context"
	"errors"
	"fmt"

	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// openAIBackend calls the chat completions API.
type openAIBackend struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func (o *openAIBackend) provider() Provider { return ProviderOpenAI }

func (o *openAIBackend) complete(ctx context.Context, system, input string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	// Validate response structure (safety check to prevent panic on array access)
	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// probe lists models, which verifies both reachability and the API key.
func (o *openAIBackend) probe(ctx context.Context) error {
	if _, err := o.client.ListModels(ctx); err != nil {
		return classifyOpenAIError(err)
	}
	return nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message})
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai api error: %w", &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: err.Error()})
	}
	return fmt.Errorf("openai api error: %w", err)
}

// NewOpenAI creates a Primitive backed by OpenAI's chat completions API.
func NewOpenAI(oc OpenAIConfig, cfg Config) (*Primitive, error) {
	if oc.Model == "" {
		oc.Model = defaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(oc.APIKey)
	if oc.BaseURL != "" {
		clientCfg.BaseURL = oc.BaseURL
	}

	b := &openAIBackend{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     oc.Model,
		maxTokens: cfg.MaxOutputTokens,
	}
	return newPrimitive(b, cfg, circuitbreaker.ModelConfig(string(ProviderOpenAI)), retry.ModelAPIConfig())
}
