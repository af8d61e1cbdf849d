package pipeline

import (
	"unicode"

	"quickmind/internal/domain/entity"
)

// Split cuts input into windows of at most window runes, consecutive windows
// sharing overlap runes. The last window may be shorter. Input that already fits
// (including the empty string) comes back as a single chunk.
//
// Parameters that would never advance (window <= 0, overlap < 0,
// overlap >= window) return entity.ErrInvalidWindow.
func Split(input string, window, overlap int) ([]entity.Chunk, error) {
	if err := entity.ValidateWindow(window, overlap); err != nil {
		return nil, err
	}

	runes := []rune(input)
	n := len(runes)
	if n <= window {
		return []entity.Chunk{{Index: 0, Start: 0, End: n, Text: input}}, nil
	}

	step := window - overlap
	chunks := make([]entity.Chunk, 0, (n-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := min(start+window, n)
		chunks = append(chunks, entity.Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		if end == n {
			return chunks, nil
		}
	}
}

// SplitAtBoundaries cuts input into disjoint windows of at most window runes,
// ending each window after the last sentence end in its second half or,
// failing that, after its last whitespace. A window without whitespace is cut
// at window runes. Concatenating the chunk texts gives back input.
func SplitAtBoundaries(input string, window int) ([]entity.Chunk, error) {
	if err := entity.ValidateWindow(window, 0); err != nil {
		return nil, err
	}

	runes := []rune(input)
	n := len(runes)
	if n <= window {
		return []entity.Chunk{{Index: 0, Start: 0, End: n, Text: input}}, nil
	}

	chunks := make([]entity.Chunk, 0, n/window+1)
	for start := 0; start < n; {
		end := min(start+window, n)
		if end < n {
			end = boundary(runes, start, end)
		}
		chunks = append(chunks, entity.Chunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		start = end
	}
	return chunks, nil
}

// boundary returns a cut in (start, end] that does not split a word.
func boundary(runes []rune, start, end int) int {
	if unicode.IsSpace(runes[end]) || unicode.IsSpace(runes[end-1]) {
		return end
	}
	half := start + (end-start)/2
	lastSpace := -1
	for i := end - 1; i > start; i-- {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		if i > half && isSentenceEnd(runes[i-1]) {
			return i + 1
		}
		if lastSpace < 0 {
			lastSpace = i + 1
		}
		if i <= half {
			break
		}
	}
	if lastSpace > 0 {
		return lastSpace
	}
	return end
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
