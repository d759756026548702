package segmentation

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Detector splits a block of raw text into candidate sentences, in order
type Detector interface {
	Tokenize(text string) []string
}

// PunktDetector detects sentence boundaries with a pretrained punkt model.
// It is safe for concurrent use; calls are serialized.
type PunktDetector struct {
	mu        sync.Mutex
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewPunktDetector loads the bundled English punkt model.
// The model is loaded once per detector; share the detector between segmenters.
func NewPunktDetector() (*PunktDetector, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load punkt model: %w", err)
	}
	return &PunktDetector{tokenizer: tokenizer}, nil
}

// Tokenize returns the non-blank sentences of text with surrounding whitespace trimmed.
// punkt leaves the paragraph break in front of a paragraph's first sentence.
func (d *PunktDetector) Tokenize(text string) []string {
	d.mu.Lock()
	found := d.tokenizer.Tokenize(text)
	d.mu.Unlock()
	out := make([]string, 0, len(found))
	for _, s := range found {
		candidate := strings.TrimSpace(s.Text)
		if candidate == "" {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// ParagraphDetector splits on blank lines before delegating each paragraph,
// so that a heading line followed by a paragraph is its own candidate
type ParagraphDetector struct {
	Inner Detector
}

// Tokenize runs the inner detector over each paragraph in order
func (d ParagraphDetector) Tokenize(text string) []string {
	var out []string
	for _, para := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(para) == "" {
			continue
		}
		out = append(out, d.Inner.Tokenize(para)...)
	}
	return out
}
