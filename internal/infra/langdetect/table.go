package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var codeTable = sync.OnceValue(func() map[string]lingua.Language {
	all := lingua.AllLanguages()
	table := make(map[string]lingua.Language, len(all))
	for _, lang := range all {
		table[strings.ToLower(lang.IsoCode639_1().String())] = lang
	}
	return table
})
