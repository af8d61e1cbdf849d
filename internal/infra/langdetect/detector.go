// Package langdetect identifies the language of a text with lingua-go and maps
// lingua's language table to lowercase ISO 639-1 codes.
package langdetect

import (
	"fmt"
	"strings"

	"quickmind/internal/domain/entity"

	"github.com/pemistahl/lingua-go"
)

// DefaultLanguages are loaded when no explicit set is configured.
// Loading every lingua model costs around a gigabyte of memory.
var DefaultLanguages = []string{"en", "fr", "de", "es", "it", "pt", "nl", "ja", "zh", "ko", "ru"}

// Detector wraps a lingua detector built for a fixed language set.
type Detector struct {
	detector lingua.LanguageDetector
	byCode   map[string]lingua.Language
}

// New builds a Detector for the given ISO 639-1 codes.
// At least two known languages are required.
func New(codes ...string) (*Detector, error) {
	if len(codes) == 0 {
		codes = DefaultLanguages
	}

	table := codeTable()
	byCode := make(map[string]lingua.Language, len(codes))
	languages := make([]lingua.Language, 0, len(codes))
	for _, code := range codes {
		code = normalize(code)
		lang, ok := table[code]
		if !ok {
			return nil, fmt.Errorf("%w: %q", entity.ErrUnsupportedLanguage, code)
		}
		if _, dup := byCode[code]; dup {
			continue
		}
		byCode[code] = lang
		languages = append(languages, lang)
	}
	if len(languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages, got %d", len(languages))
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithMinimumRelativeDistance(0.1).
		Build()

	return &Detector{detector: detector, byCode: byCode}, nil
}

// Detect returns the language code of text, or false when lingua is unsure.
func (d *Detector) Detect(text string) (string, bool) {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// DisplayName returns the English name of code, or code itself when unknown.
func (d *Detector) DisplayName(code string) string {
	if lang, ok := codeTable()[normalize(code)]; ok {
		return lang.String()
	}
	return code
}

// Supports reports whether code is one of the configured languages.
func (d *Detector) Supports(code string) bool {
	_, ok := d.byCode[normalize(code)]
	return ok
}

// Languages returns the configured language codes.
func (d *Detector) Languages() []string {
	out := make([]string, 0, len(d.byCode))
	for code := range d.byCode {
		out = append(out, code)
	}
	return out
}

// ValidateTarget checks a translation target code against lingua's table.
func (d *Detector) ValidateTarget(code string) error {
	return ValidateTarget(code)
}

// Supported reports whether lingua knows the ISO 639-1 code at all.
func Supported(code string) bool {
	_, ok := codeTable()[normalize(code)]
	return ok
}

// ValidateTarget checks a translation target code.
func ValidateTarget(code string) error {
	if strings.TrimSpace(code) == "" {
		return &entity.ValidationError{Field: "target", Message: "target language is required"}
	}
	if !Supported(code) {
		return fmt.Errorf("%w: %q", entity.ErrUnsupportedLanguage, code)
	}
	return nil
}

func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
