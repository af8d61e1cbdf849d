package pipeline

import (
	"errors"
	"fmt"

	"quickmind/internal/domain/entity"
)

const (
	// DefaultWindowSize is the maximum rune length handed to the model in one call.
	DefaultWindowSize = 4000
	// DefaultOverlap is the number of runes shared by consecutive chunks.
	DefaultOverlap = 200
	// DefaultMinUsableLength is the rune floor for chunk outputs and combined text.
	DefaultMinUsableLength = 50
	// DefaultMaxDepth bounds the number of reduction levels.
	DefaultMaxDepth = 6
	// DefaultParallelism bounds concurrent model calls within one map stage.
	DefaultParallelism = 4

	// MinWindowSize keeps chunk outputs from growing larger than their input window.
	MinWindowSize = 100
)

// Config holds the tunables of the summarization and translation pipelines.
type Config struct {
	WindowSize      int
	Overlap         int
	MinUsableLength int
	// RejectShortChunks drops chunk outputs of MinUsableLength runes or fewer.
	RejectShortChunks bool
	MaxDepth          int
	Parallelism       int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:        DefaultWindowSize,
		Overlap:           DefaultOverlap,
		MinUsableLength:   DefaultMinUsableLength,
		RejectShortChunks: true,
		MaxDepth:          DefaultMaxDepth,
		Parallelism:       DefaultParallelism,
	}
}

// Validate checks that the configuration lets the pipeline make progress.
func (c Config) Validate() error {
	var errs []error
	if err := entity.ValidateWindow(c.WindowSize, c.Overlap); err != nil {
		errs = append(errs, err)
	}
	if c.WindowSize > 0 && c.WindowSize < MinWindowSize {
		errs = append(errs, fmt.Errorf("window size must be at least %d, got %d", MinWindowSize, c.WindowSize))
	}
	if c.MinUsableLength < 0 {
		errs = append(errs, fmt.Errorf("min usable length cannot be negative, got %d", c.MinUsableLength))
	}
	if c.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("max depth must be at least 1, got %d", c.MaxDepth))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	return errors.Join(errs...)
}

// chunkFloor is the rune floor applied to individual chunk outputs.
func (c Config) chunkFloor() int {
	if !c.RejectShortChunks {
		return 0
	}
	return c.MinUsableLength
}
