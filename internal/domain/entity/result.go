package entity

import "encoding/json"

// SummaryFailedMessage is returned to users when reduction cannot produce usable output.
const SummaryFailedMessage = "The summary failed to produce a result."

// TranslationFailedMessage is returned to users when a translation window fails.
const TranslationFailedMessage = "The translation failed to produce a result."

// Status tags the outcome carried by a Result.
type Status int

const (
	// StatusNoResult means nothing was produced; Output is empty and renders as null.
	StatusNoResult Status = iota
	// StatusOK means Output holds text produced by the model.
	StatusOK
	// StatusFailed means Output holds a fixed user-facing failure message.
	StatusFailed
)

// String returns the wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFailed:
		return "failed"
	default:
		return "no_result"
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Result is what the pipeline hands back at every terminal state.
// Callers switch on Status instead of comparing strings.
type Result struct {
	Output string
	Status Status

	// Levels is the deepest reduction level reached (1 for the direct path).
	Levels int
	// Calls counts primitive invocations made for this request.
	Calls int
}

// OK builds a successful result.
func OK(output string) Result {
	return Result{Output: output, Status: StatusOK}
}

// Failed builds a result carrying a fixed failure message.
func Failed(message string) Result {
	return Result{Output: message, Status: StatusFailed}
}

// NoResult builds an empty result.
func NoResult() Result {
	return Result{Status: StatusNoResult}
}

// HasOutput reports whether the result carries any text to display.
func (r Result) HasOutput() bool {
	return r.Status != StatusNoResult
}

// OutputPtr returns the output as a pointer, nil when there is nothing to show.
// HTTP and CLI encoders use it to emit JSON null.
func (r Result) OutputPtr() *string {
	if !r.HasOutput() {
		return nil
	}
	out := r.Output
	return &out
}
