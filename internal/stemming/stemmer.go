// Package stemming tokenizes sentences into words and reduces words to their stems.
package stemming

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"
)

// Stemmer reduces a word to its stem
type Stemmer interface {
	Stem(word string) string
}

// Identity leaves words unchanged
type Identity struct{}

// Stem returns word
func (Identity) Stem(word string) string { return word }

// Snowball stems with the Snowball algorithm of one language
type Snowball struct {
	language string
}

var snowballLanguages = map[string]string{
	"en": "english", "english": "english",
	"es": "spanish", "spanish": "spanish",
	"fr": "french", "french": "french",
	"ru": "russian", "russian": "russian",
	"sv": "swedish", "swedish": "swedish",
	"no": "norwegian", "nb": "norwegian", "norwegian": "norwegian",
	"hu": "hungarian", "hungarian": "hungarian",
}

// NewSnowball creates a stemmer for a language name or ISO 639-1 code
func NewSnowball(language string) (*Snowball, error) {
	name, ok := snowballLanguages[strings.ToLower(language)]
	if !ok {
		return nil, fmt.Errorf("no snowball stemmer for language %q", language)
	}
	return &Snowball{language: name}, nil
}

// Stem returns the stem of word, or word itself when it cannot be stemmed
func (s *Snowball) Stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// ForLanguage returns a Snowball stemmer, or Identity for "" and "none"
func ForLanguage(language string) (Stemmer, error) {
	switch strings.ToLower(language) {
	case "", "none":
		return Identity{}, nil
	default:
		return NewSnowball(language)
	}
}
