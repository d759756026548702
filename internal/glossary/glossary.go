package glossary

import (
	"sort"

	"github.com/jonathan/bitext-aligner/internal/stemming"
	"github.com/jonathan/bitext-aligner/internal/types"
)

// DefaultThreshold is the probability a pair must exceed to be considered
const DefaultThreshold = 0.9

// Trainer estimates a translation table from word sequence pairs
type Trainer interface {
	Train(pairs []types.WordPair) (types.ProbTable, error)
}

// Result holds the filtered glossary and the table it came from
type Result struct {
	Entries []types.WordTranslation
	Table   types.ProbTable
}

// TrainingPairs stems both sides of every bitext entry. An entry whose texts are
// identical to the previous entry's is skipped, as are entries with an empty side.
func TrainingPairs(bitext *types.Bitext, source, target stemming.Stemmer) []types.WordPair {
	if bitext == nil {
		return nil
	}
	pairs := make([]types.WordPair, 0, len(bitext.Pairs))
	var prev *types.BitextPair
	for i := range bitext.Pairs {
		entry := &bitext.Pairs[i]
		if prev != nil && prev.Source.Text == entry.Source.Text && prev.Target.Text == entry.Target.Text {
			continue
		}
		prev = entry

		sw := stemming.Words(entry.Source.Text, source)
		tw := stemming.Words(entry.Target.Text, target)
		if len(sw) == 0 || len(tw) == 0 {
			continue
		}
		pairs = append(pairs, types.WordPair{Source: sw, Target: tw})
	}
	return pairs
}

// Induce trains the model on the bitext and filters its table at threshold
func Induce(bitext *types.Bitext, source, target stemming.Stemmer, trainer Trainer, threshold float64) (*Result, error) {
	pairs := TrainingPairs(bitext, source, target)
	if len(pairs) == 0 {
		return nil, &TrainingError{Message: "bitext has no usable sentence pairs"}
	}

	table, err := trainer.Train(pairs)
	if err != nil {
		return nil, &TrainingError{Message: "word alignment failed", Cause: err}
	}

	return &Result{Entries: Filter(table, threshold), Table: table}, nil
}

// Filter keeps the pairs whose probability exceeds threshold and whose source
// word and target word each occur in exactly one such pair. The result is sorted
// by source word; no two entries share a source or a target word.
func Filter(table types.ProbTable, threshold float64) []types.WordTranslation {
	var candidates []types.WordTranslation
	sourceCount := make(map[string]int)
	targetCount := make(map[string]int)

	for s, row := range table {
		for t, p := range row {
			if p > threshold {
				candidates = append(candidates, types.WordTranslation{SourceWord: s, TargetWord: t, Probability: p})
				sourceCount[s]++
				targetCount[t]++
			}
		}
	}

	out := make([]types.WordTranslation, 0, len(candidates))
	for _, c := range candidates {
		if sourceCount[c.SourceWord] == 1 && targetCount[c.TargetWord] == 1 {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceWord != out[j].SourceWord {
			return out[i].SourceWord < out[j].SourceWord
		}
		return out[i].TargetWord < out[j].TargetWord
	})
	return out
}
