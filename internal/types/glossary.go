package types

// ProbTable maps a source word to a distribution over target words
type ProbTable map[string]map[string]float64

// Prob returns the probability of target given source, or 0 when the entry is absent
func (t ProbTable) Prob(source, target string) float64 {
	row, ok := t[source]
	if !ok {
		return 0
	}
	return row[target]
}

// WordTranslation is one filtered glossary entry
type WordTranslation struct {
	SourceWord  string  `json:"source_word"`
	TargetWord  string  `json:"target_word"`
	Probability float64 `json:"probability"`
}

// WordPair is one training example for the word alignment model: stemmed tokens of both sides
type WordPair struct {
	Source []string `json:"source"`
	Target []string `json:"target"`
}
