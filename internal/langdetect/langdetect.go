// Package langdetect guesses the language a note is written in.
package langdetect

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// Languages is the fixed candidate set. Restricting the set keeps the
// detector's memory footprint small.
var Languages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
}

var detector = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(Languages...).
		Build()
})

// Detect returns the lowercase ISO 639-1 code of the most likely language.
// ok is false for blank text or when no language is reliable.
func Detect(text string) (code string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := detector().DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
