package text_test

import (
	"strings"
	"testing"

	"quickmind/internal/utils/text"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Japanese hiragana", input: "こんにちは", expected: 5},
		{name: "Japanese kanji", input: "日本語", expected: 3},
		{name: "English and Japanese", input: "hello世界", expected: 7},
		{name: "emoji", input: "Hello👋", expected: 6},
		{name: "empty string", input: "", expected: 0},
		{name: "newlines count", input: "a\n\nb", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "shorter than limit", input: "abc", max: 5, want: "abc"},
		{name: "exact limit", input: "abcde", max: 5, want: "abcde"},
		{name: "cut ASCII", input: "abcdef", max: 3, want: "abc"},
		{name: "cut multibyte on rune boundary", input: "日本語テキスト", max: 3, want: "日本語"},
		{name: "zero limit", input: "abc", max: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.Truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestIsUsable(t *testing.T) {
	tests := []struct {
		name   string
		output string
		min    int
		want   bool
	}{
		{name: "blank", output: "   \n", min: 0, want: false},
		{name: "empty", output: "", min: 0, want: false},
		{name: "any content without floor", output: "ok", min: 0, want: true},
		{name: "below floor", output: strings.Repeat("x", 50), min: 50, want: false},
		{name: "above floor", output: strings.Repeat("x", 51), min: 50, want: true},
		{name: "floor counts trimmed runes", output: "  " + strings.Repeat("あ", 50) + "  ", min: 50, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.IsUsable(tt.output, tt.min); got != tt.want {
				t.Errorf("IsUsable(%q, %d) = %v, want %v", tt.output, tt.min, got, tt.want)
			}
		})
	}
}
