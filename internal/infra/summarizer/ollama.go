package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// ollamaBackend talks to a local Ollama server through langchaingo.
type ollamaBackend struct {
	llm       *ollama.LLM
	maxTokens int
}

func (o *ollamaBackend) provider() Provider { return ProviderOllama }

func (o *ollamaBackend) complete(ctx context.Context, system, input string) (string, error) {
	resp, err := o.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, input),
	}, llms.WithMaxTokens(o.maxTokens), llms.WithTemperature(0.2))
	if err != nil {
		return "", classifyOllamaError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("ollama returned empty response")
	}
	return resp.Choices[0].Content, nil
}

// probe asks for a one-token answer, which makes Ollama load the model.
func (o *ollamaBackend) probe(ctx context.Context) error {
	_, err := llms.GenerateFromSinglePrompt(ctx, o.llm, "Reply with OK.", llms.WithMaxTokens(1))
	if err != nil {
		return classifyOllamaError(err)
	}
	return nil
}

// classifyOllamaError marks the failures of a model that is still loading as transient.
func classifyOllamaError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "loading model") || strings.Contains(msg, "server busy") {
		return fmt.Errorf("ollama: %w", retry.Transient(err))
	}
	return fmt.Errorf("ollama: %w", err)
}

// NewOllama creates a Primitive backed by a local Ollama model.
// This is the default provider: the text never leaves the machine.
func NewOllama(oc OllamaConfig, cfg Config) (*Primitive, error) {
	if oc.ServerURL == "" {
		oc.ServerURL = defaultOllamaURL
	}
	if oc.Model == "" {
		oc.Model = defaultOllamaModel
	}

	llm, err := ollama.New(ollama.WithServerURL(oc.ServerURL), ollama.WithModel(oc.Model))
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}

	return newPrimitive(&ollamaBackend{llm: llm, maxTokens: cfg.MaxOutputTokens}, cfg,
		circuitbreaker.LocalModelConfig(string(ProviderOllama)), retry.LocalModelConfig())
}
