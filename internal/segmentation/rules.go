package segmentation

import (
	"regexp"
)

// Default patterns. Headings must be the whole candidate apart from leading
// line breaks and trailing spaces.
const (
	DefaultBlockSeparator = `\n\n\n\n[\n\r]*`
	DefaultPartPattern    = `^[\r\n]*(PART *[A-Z]*) *\n?$`
	DefaultChapterPattern = `^[\r\n]*(CHAPTER *[A-Z]*) *\n?$`
)

// SegmentationRules holds everything the Segmenter needs to split a document.
// It is a value owned by whoever builds the Segmenter; nothing here is global.
type SegmentationRules struct {
	BlockSeparator *regexp.Regexp
	PartPattern    *regexp.Regexp
	ChapterPattern *regexp.Regexp
	Detector       Detector
}

// DefaultRules returns the reference patterns wired to the given sentence detector
func DefaultRules(detector Detector) SegmentationRules {
	return SegmentationRules{
		BlockSeparator: regexp.MustCompile(DefaultBlockSeparator),
		PartPattern:    regexp.MustCompile(DefaultPartPattern),
		ChapterPattern: regexp.MustCompile(DefaultChapterPattern),
		Detector:       detector,
	}
}

// CompileRules builds rules from pattern strings, falling back to the defaults for empty ones
func CompileRules(blockSeparator, partPattern, chapterPattern string, detector Detector) (SegmentationRules, error) {
	compile := func(name, pattern, fallback string) (*regexp.Regexp, error) {
		if pattern == "" {
			pattern = fallback
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &RulesError{Message: name + " pattern: " + err.Error()}
		}
		return re, nil
	}

	var rules SegmentationRules
	var err error
	if rules.BlockSeparator, err = compile("block separator", blockSeparator, DefaultBlockSeparator); err != nil {
		return SegmentationRules{}, err
	}
	if rules.PartPattern, err = compile("part", partPattern, DefaultPartPattern); err != nil {
		return SegmentationRules{}, err
	}
	if rules.ChapterPattern, err = compile("chapter", chapterPattern, DefaultChapterPattern); err != nil {
		return SegmentationRules{}, err
	}
	for _, re := range []*regexp.Regexp{rules.PartPattern, rules.ChapterPattern} {
		if re.NumSubexp() < 1 {
			return SegmentationRules{}, &RulesError{Message: "heading pattern " + re.String() + " has no capture group"}
		}
	}
	rules.Detector = detector

	return rules, nil
}

// Validate checks that every rule is present
func (r SegmentationRules) Validate() error {
	switch {
	case r.BlockSeparator == nil:
		return &RulesError{Message: "block separator is missing"}
	case r.PartPattern == nil:
		return &RulesError{Message: "part pattern is missing"}
	case r.ChapterPattern == nil:
		return &RulesError{Message: "chapter pattern is missing"}
	case r.Detector == nil:
		return &RulesError{Message: "sentence detector is missing"}
	}
	return nil
}
