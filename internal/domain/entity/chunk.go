// Package entity defines the core domain types shared by the summarization and
// translation pipelines: chunks of text, per-chunk outcomes, model tasks and the
// tagged result handed back to callers.
//
// All values are transient. They are created and discarded within one request.
package entity

// Chunk is a contiguous window of a parent text.
// Start and End are rune offsets into the parent, End exclusive.
type Chunk struct {
	Index int
	Start int
	End   int
	Text  string
}

// Len returns the chunk length in runes.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// ChunkResult is the outcome of transforming one chunk.
// OK == false is the explicit "no output" marker: the primitive failed or
// produced nothing usable. Output is only meaningful when OK is true.
type ChunkResult struct {
	Index  int
	Output string
	OK     bool
	Err    error
}

// NoOutput builds the "no output" marker for a chunk.
func NoOutput(index int, err error) ChunkResult {
	return ChunkResult{Index: index, Err: err}
}

// Produced builds a successful chunk result.
func Produced(index int, output string) ChunkResult {
	return ChunkResult{Index: index, Output: output, OK: true}
}
