// Package text provides rune-aware helpers shared by the pipeline and the model adapters.
// Every length in this module is measured in Unicode code points, never bytes.
package text

import (
	"strings"
	"unicode/utf8"
)

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Multi-byte characters (Japanese, emoji, accented Latin) count as one each.
//
// Examples:
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは") // 5
//	CountRunes("hello世界")  // 7
//	CountRunes("")           // 0
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate returns at most maxRunes runes of text.
// It never splits a multi-byte character.
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if CountRunes(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes])
}

// IsUsable reports whether a model output carries content: non-blank after
// trimming and, when minRunes > 0, strictly longer than minRunes.
func IsUsable(output string, minRunes int) bool {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return false
	}
	if minRunes > 0 && CountRunes(trimmed) <= minRunes {
		return false
	}
	return true
}
