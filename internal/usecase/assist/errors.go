// Package assist ties the model handle, result cache, page fetcher and the
// summarization and translation pipelines into the operations exposed to users.
package assist

import (
	"errors"

	"quickmind/internal/domain/entity"
	"quickmind/internal/infra/fetcher"
)

// User-facing messages.
const (
	// EmptyInputMessage asks the user to provide text.
	EmptyInputMessage = "Please highlight some text before running QuickMind."

	// ModelNotReadyMessage is shown while the language model cannot be acquired.
	ModelNotReadyMessage = "AI Summarizer is not ready. Please wait a moment or check prerequisites."
)

// UserMessage returns the sentence to show a user for err, or "" when err is
// not one of the expected user errors.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entity.ErrEmptyInput), errors.Is(err, fetcher.ErrEmptySelection):
		return EmptyInputMessage
	case errors.Is(err, entity.ErrModelUnavailable):
		return ModelNotReadyMessage
	default:
		return ""
	}
}
