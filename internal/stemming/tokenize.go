package stemming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize splits text into lower-cased words. Anything that is not a letter,
// a digit or an inner apostrophe separates words.
func Tokenize(text string) []string {
	lower := cases.Lower(language.Und).String(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})

	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "'’")
		if f != "" {
			words = append(words, f)
		}
	}
	return words
}

// Words tokenizes text and stems every word
func Words(text string, stemmer Stemmer) []string {
	words := Tokenize(text)
	for i, w := range words {
		words[i] = stemmer.Stem(w)
	}
	return words
}
