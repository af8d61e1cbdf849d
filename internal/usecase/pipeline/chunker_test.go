package pipeline

import (
	"strings"
	"testing"

	"quickmind/internal/domain/entity"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type span struct{ Start, End int }

func spans(chunks []entity.Chunk) []span {
	out := make([]span, len(chunks))
	for i, c := range chunks {
		out[i] = span{c.Start, c.End}
	}
	return out
}

func TestSplit_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		window  int
		overlap int
		want    []span
	}{
		{name: "empty text", length: 0, window: 10, overlap: 2, want: []span{{0, 0}}},
		{name: "shorter than window", length: 7, window: 10, overlap: 2, want: []span{{0, 7}}},
		{name: "exactly one window", length: 10, window: 10, overlap: 2, want: []span{{0, 10}}},
		{name: "one rune over", length: 11, window: 10, overlap: 2, want: []span{{0, 10}, {8, 11}}},
		{name: "last chunk ends exactly", length: 18, window: 10, overlap: 2, want: []span{{0, 10}, {8, 18}}},
		{name: "no overlap", length: 25, window: 10, overlap: 0, want: []span{{0, 10}, {10, 20}, {20, 25}}},
		{
			name:   "long document",
			length: 10000, window: 3000, overlap: 200,
			want: []span{{0, 3000}, {2800, 5800}, {5600, 8600}, {8400, 10000}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(document(tt.length), tt.window, tt.overlap)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, spans(chunks)); diff != "" {
				t.Errorf("chunk spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplit_CoverageProperty(t *testing.T) {
	params := []struct{ window, overlap int }{
		{10, 0}, {10, 3}, {10, 9}, {100, 20}, {4000, 200},
	}
	for _, p := range params {
		for _, n := range []int{0, 1, p.window - 1, p.window, p.window + 1, 3*p.window + 7, 10000} {
			if n < 0 {
				continue
			}
			input := document(n)
			chunks, err := Split(input, p.window, p.overlap)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)

			assert.Equal(t, 0, chunks[0].Start)
			assert.Equal(t, n, chunks[len(chunks)-1].End)

			var rebuilt strings.Builder
			rebuilt.WriteString(chunks[0].Text)
			for i, c := range chunks {
				assert.Equal(t, i, c.Index)
				assert.LessOrEqual(t, c.Len(), p.window)
				assert.Equal(t, runeSlice(input, c.Start, c.End), c.Text)
				if i == 0 {
					continue
				}
				prev := chunks[i-1]
				assert.Equal(t, p.overlap, prev.End-c.Start, "window=%d overlap=%d n=%d chunk=%d", p.window, p.overlap, n, i)
				rebuilt.WriteString(runeSlice(c.Text, p.overlap, c.Len()))
			}
			assert.Equal(t, input, rebuilt.String())
		}
	}
}

func TestSplit_CountsRunesNotBytes(t *testing.T) {
	input := strings.Repeat("要約", 10) // 20 runes, 60 bytes
	chunks, err := Split(input, 8, 2)
	require.NoError(t, err)

	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c.Text)), 8)
	}
	assert.Equal(t, 20, chunks[len(chunks)-1].End)
}

func TestSplit_ShortInputIsIdentity(t *testing.T) {
	input := "A short paragraph that fits."
	chunks, err := Split(input, 100, 10)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, input, chunks[0].Text)
}

func TestSplit_InvalidWindow(t *testing.T) {
	tests := []struct {
		name            string
		window, overlap int
	}{
		{name: "zero window", window: 0, overlap: 0},
		{name: "negative window", window: -5, overlap: 0},
		{name: "negative overlap", window: 10, overlap: -1},
		{name: "overlap equals window", window: 10, overlap: 10},
		{name: "overlap exceeds window", window: 10, overlap: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split("some text", tt.window, tt.overlap)
			assert.ErrorIs(t, err, entity.ErrInvalidWindow)
			assert.Nil(t, chunks)
		})
	}
}

func TestSplitAtBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		window int
		want   []span
	}{
		{name: "fits", input: "hello world", window: 20, want: []span{{0, 11}}},
		{
			name:   "backs off to whitespace",
			input:  strings.Repeat("hello world ", 30),
			window: 100,
			want:   []span{{0, 96}, {96, 192}, {192, 288}, {288, 360}},
		},
		{
			name:   "prefers a sentence end in the second half",
			input:  "Aaaa bbbb. Cccc dddd eeee ffff",
			window: 18,
			want:   []span{{0, 11}, {11, 26}, {26, 30}},
		},
		{
			name:   "ignores a sentence end in the first half",
			input:  "Hi. aaaa bbbb cccc dddd",
			window: 16,
			want:   []span{{0, 14}, {14, 23}},
		},
		{
			name:   "cut already on whitespace",
			input:  "aaaa bbbb cccc",
			window: 5,
			want:   []span{{0, 5}, {5, 10}, {10, 14}},
		},
		{name: "no whitespace falls back to hard cut", input: document(25), window: 10, want: []span{{0, 10}, {10, 20}, {20, 25}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := SplitAtBoundaries(tt.input, tt.window)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, spans(chunks)); diff != "" {
				t.Errorf("chunk spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitAtBoundaries_RebuildsInput(t *testing.T) {
	inputs := []string{
		strings.Repeat("The quick brown fox jumps. ", 200),
		strings.Repeat("要約 ", 300),
		"no-spaces-" + document(500),
	}
	for _, input := range inputs {
		chunks, err := SplitAtBoundaries(input, 64)
		require.NoError(t, err)

		var rebuilt strings.Builder
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.LessOrEqual(t, c.Len(), 64)
			assert.Positive(t, c.Len())
			if i > 0 {
				assert.Equal(t, chunks[i-1].End, c.Start)
			}
			rebuilt.WriteString(c.Text)
		}
		assert.Equal(t, input, rebuilt.String())
	}
}

func TestSplitAtBoundaries_InvalidWindow(t *testing.T) {
	_, err := SplitAtBoundaries("text", 0)
	assert.ErrorIs(t, err, entity.ErrInvalidWindow)
}
