package summarizer

import (
	"context"
	"strings"

	"quickmind/internal/resilience/circuitbreaker"
	"quickmind/internal/resilience/retry"
	"quickmind/internal/utils/text"
)

// noopMinRunes keeps NoOp summaries above the pipeline's usability floor.
const noopMinRunes = 80

// noopBackend answers without a model: summaries are the leading sentences of
// the input, about a quarter of its length, and translations echo the input.
// It is deterministic and meant for development and tests.
type noopBackend struct{}

func (noopBackend) provider() Provider { return ProviderNoOp }

func (noopBackend) probe(context.Context) error { return nil }

func (noopBackend) complete(ctx context.Context, system, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.HasPrefix(system, "Translate") {
		return input, nil
	}
	return leadingSentences(input, max(text.CountRunes(input)/4, noopMinRunes)), nil
}

// leadingSentences returns whole sentences from the start of s until budget
// runes are used, or a hard cut when the first sentence is already longer.
func leadingSentences(s string, budget int) string {
	s = strings.TrimSpace(s)
	if text.CountRunes(s) <= budget {
		return s
	}
	runes := []rune(s)
	cut := -1
	for i := 0; i < budget; i++ {
		switch runes[i] {
		case '.', '!', '?', '。':
			cut = i + 1
		}
	}
	if cut <= 0 {
		return string(runes[:budget])
	}
	return strings.TrimSpace(string(runes[:cut]))
}

// NewNoOp returns a Primitive that never contacts a model.
func NewNoOp(cfg Config) (*Primitive, error) {
	return newPrimitive(noopBackend{}, cfg, circuitbreaker.DefaultConfig("noop"), retry.LocalModelConfig())
}
