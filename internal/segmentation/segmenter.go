package segmentation

import (
	"strings"

	"github.com/jonathan/bitext-aligner/internal/ingestion"
	"github.com/jonathan/bitext-aligner/internal/types"
)

// TraceFunc receives every candidate sentence and the Sentence it was classified as
type TraceFunc func(candidate string, sentence types.Sentence)

// Segmenter splits documents according to its rules
type Segmenter struct {
	rules SegmentationRules
	trace TraceFunc
}

// NewSegmenter creates a Segmenter, rejecting incomplete rules
func NewSegmenter(rules SegmentationRules) (*Segmenter, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Segmenter{rules: rules}, nil
}

// WithTrace returns a copy of the segmenter that reports each classification to fn
func (s *Segmenter) WithTrace(fn TraceFunc) *Segmenter {
	clone := *s
	clone.trace = fn
	return &clone
}

// Segment reads a file and splits it into a Text
func (s *Segmenter) Segment(path string) (*types.Text, error) {
	raw, _, err := ingestion.ReadFile(path)
	if err != nil {
		return nil, &SegmentError{Path: path, Message: "failed to read input", Cause: err}
	}
	text := s.SegmentString(raw)
	text.Name = path
	return text, nil
}

// SegmentString splits already loaded text into a Text.
// Text without any block separator yields exactly one block.
func (s *Segmenter) SegmentString(raw string) *types.Text {
	parts := s.rules.BlockSeparator.Split(raw, -1)
	text := &types.Text{Blocks: make([]types.Block, 0, len(parts))}
	for _, part := range parts {
		text.Blocks = append(text.Blocks, s.segmentBlock(part))
	}
	return text
}

func (s *Segmenter) segmentBlock(raw string) types.Block {
	var sentences []types.Sentence
	if strings.TrimSpace(raw) != "" {
		for _, candidate := range s.rules.Detector.Tokenize(raw) {
			sentence := s.Classify(candidate)
			if s.trace != nil {
				s.trace(candidate, sentence)
			}
			sentences = append(sentences, sentence)
		}
	}
	return types.NewBlock(sentences)
}

// Classify tags a candidate sentence. The part pattern is tried before the chapter pattern;
// a heading keeps only the matched token as its text.
func (s *Segmenter) Classify(candidate string) types.Sentence {
	if m := s.rules.PartPattern.FindStringSubmatch(candidate); m != nil {
		return types.NewHeadingSentence(m[1], types.RolePartHeading)
	}
	if m := s.rules.ChapterPattern.FindStringSubmatch(candidate); m != nil {
		return types.NewHeadingSentence(m[1], types.RoleChapterHeading)
	}
	return types.NewBodySentence(candidate)
}
