package summarizer

import (
	"context"
	"fmt"

	"quickmind/internal/usecase/pipeline"
)

// New builds the Primitive selected by s.Provider without contacting it.
func New(s Settings) (*Primitive, error) {
	switch s.Provider {
	case ProviderOllama, "":
		return NewOllama(s.Ollama, s.Common)
	case ProviderClaude:
		return NewClaude(s.Claude, s.Common)
	case ProviderOpenAI:
		return NewOpenAI(s.OpenAI, s.Common)
	case ProviderNoOp:
		return NewNoOp(s.Common)
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}

// NewFactory returns a Factory that builds the configured Primitive and
// probes it, so a Handle only caches a model that is ready to serve.
func NewFactory(s Settings) Factory {
	return func(ctx context.Context) (pipeline.Primitive, error) {
		p, err := New(s)
		if err != nil {
			return nil, err
		}
		if err := p.Probe(ctx); err != nil {
			return nil, err
		}
		return p, nil
	}
}
