// Package wordalign estimates word translation probabilities from sentence pairs
// with IBM Model 1 expectation maximization.
package wordalign

import (
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// NullWord stands for the empty target word that source words may align to
const NullWord = "<null>"

// DefaultIterations is the number of EM iterations used when none is given
const DefaultIterations = 5

// Model1 trains IBM Model 1.
//
// The resulting table is keyed source word first: table[s][t] is the probability
// that source word s is generated by target word t, so it is normalized over s for
// each t. A source word can therefore score high against several target words.
type Model1 struct {
	Iterations int
	// UseNull adds NullWord to every target sentence
	UseNull bool
}

// Train runs EM over the pairs and returns the translation table.
// Pairs with an empty side contribute nothing.
func (m Model1) Train(pairs []types.WordPair) (types.ProbTable, error) {
	iterations := m.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	table := make(types.ProbTable)
	vocabulary := make(map[string]struct{})
	for _, p := range pairs {
		if len(p.Source) == 0 || len(p.Target) == 0 {
			continue
		}
		for _, s := range p.Source {
			vocabulary[s] = struct{}{}
			row, ok := table[s]
			if !ok {
				row = make(map[string]float64)
				table[s] = row
			}
			for _, t := range m.targets(p.Target) {
				row[t] = 0
			}
		}
	}
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("no usable sentence pairs to train on")
	}

	uniform := 1 / float64(len(vocabulary))
	for _, row := range table {
		for t := range row {
			row[t] = uniform
		}
	}

	for it := 0; it < iterations; it++ {
		counts := make(map[string]map[string]float64, len(table))
		totals := make(map[string]float64)

		for _, p := range pairs {
			if len(p.Source) == 0 || len(p.Target) == 0 {
				continue
			}
			targets := m.targets(p.Target)
			for _, s := range p.Source {
				row := table[s]
				z := 0.0
				for _, t := range targets {
					z += row[t]
				}
				if z == 0 {
					continue
				}
				countRow, ok := counts[s]
				if !ok {
					countRow = make(map[string]float64)
					counts[s] = countRow
				}
				for _, t := range targets {
					c := row[t] / z
					countRow[t] += c
					totals[t] += c
				}
			}
		}

		for s, row := range table {
			for t := range row {
				if totals[t] > 0 {
					row[t] = counts[s][t] / totals[t]
				} else {
					row[t] = 0
				}
			}
		}
	}

	return table, nil
}

func (m Model1) targets(words []string) []string {
	if !m.UseNull {
		return words
	}
	out := make([]string, 0, len(words)+1)
	out = append(out, NullWord)
	return append(out, words...)
}
