package pipeline

import (
	"context"
	"errors"
	"fmt"

	"quickmind/internal/domain/entity"
	"quickmind/internal/utils/text"
)

// ErrUnusableOutput marks a model response that came back but carries nothing usable.
var ErrUnusableOutput = errors.New("unusable model output")

// Primitive is the language model capability the pipeline is built on.
// Implementations must be safe for concurrent use.
type Primitive interface {
	Transform(ctx context.Context, task entity.Task) (string, error)
}

// PrimitiveFunc adapts a function to the Primitive interface.
type PrimitiveFunc func(ctx context.Context, task entity.Task) (string, error)

// Transform calls f(ctx, task).
func (f PrimitiveFunc) Transform(ctx context.Context, task entity.Task) (string, error) {
	return f(ctx, task)
}

// invoke runs one task and normalizes the outcome into a ChunkResult.
// A returned error, a blank response or one of minRunes runes or fewer all
// become the no-output marker.
func invoke(ctx context.Context, p Primitive, index int, task entity.Task, minRunes int) entity.ChunkResult {
	out, err := p.Transform(ctx, task)
	if err != nil {
		return entity.NoOutput(index, err)
	}
	if !text.IsUsable(out, minRunes) {
		return entity.NoOutput(index, fmt.Errorf("%w: %d runes", ErrUnusableOutput, text.CountRunes(out)))
	}
	return entity.Produced(index, out)
}
