package galechurch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// Aligner aligns two sequences of sentence lengths
type Aligner struct {
	params Params
}

// New creates an Aligner with the given parameters
func New(params Params) *Aligner {
	return &Aligner{params: params}
}

// NewDefault creates an Aligner with DefaultParams
func NewDefault() *Aligner {
	return New(DefaultParams())
}

// Align returns a monotonic correspondence covering every index of both sequences.
// Each bead is written as a staircase: the target index advances first, then the
// source index, so a pair never repeats and a bead merges into a single entry.
// Insertions and deletions are attached to the neighbouring bead.
func (a *Aligner) Align(source, target []int) (types.Correspondence, error) {
	beads, err := a.Beads(source, target)
	if err != nil {
		return nil, err
	}
	return expand(beads), nil
}

// Beads returns the minimum cost bead sequence for the two length profiles
func (a *Aligner) Beads(source, target []int) ([]Bead, error) {
	if len(source) == 0 || len(target) == 0 {
		return nil, &InputError{Message: fmt.Sprintf("empty sequence (source %d, target %d)", len(source), len(target))}
	}
	if len(a.params.Priors) == 0 {
		return nil, &InputError{Message: "no bead priors configured"}
	}
	for _, l := range source {
		if l < 0 {
			return nil, &InputError{Message: fmt.Sprintf("negative source length %d", l)}
		}
	}
	for _, l := range target {
		if l < 0 {
			return nil, &InputError{Message: fmt.Sprintf("negative target length %d", l)}
		}
	}

	n, m := len(source), len(target)
	cost := make([][]float64, n+1)
	back := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		back[i] = make([]int, m+1)
	}

	for i := 0; i <= n; i++ {
		for j := 0; j <= m; j++ {
			if i == 0 && j == 0 {
				back[i][j] = -1
				continue
			}
			best := math.Inf(1)
			bestIdx := -1
			for k, p := range a.params.Priors {
				pi, pj := i-p.Source, j-p.Target
				if pi < 0 || pj < 0 || back[pi][pj] == -2 {
					continue
				}
				c := cost[pi][pj] + a.beadCost(source[pi:i], target[pj:j], p.Probability)
				if c < best {
					best = c
					bestIdx = k
				}
			}
			cost[i][j] = best
			if bestIdx < 0 {
				back[i][j] = -2
			} else {
				back[i][j] = bestIdx
			}
		}
	}

	if back[n][m] < 0 {
		return nil, &InputError{Message: "no alignment path with the configured bead types"}
	}

	var beads []Bead
	for i, j := n, m; i > 0 || j > 0; {
		b := a.params.Priors[back[i][j]].Bead
		beads = append(beads, b)
		i -= b.Source
		j -= b.Target
	}
	for l, r := 0, len(beads)-1; l < r; l, r = l+1, r-1 {
		beads[l], beads[r] = beads[r], beads[l]
	}
	return beads, nil
}

// beadCost is -log P(bead) - log P(delta | bead)
func (a *Aligner) beadCost(source, target []int, prior float64) float64 {
	ls, lt := float64(sum(source)), float64(sum(target))

	delta := 0.0
	mean := (ls + lt/a.params.MeanRatio) / 2
	if mean > 0 {
		delta = (ls*a.params.MeanRatio - lt) / math.Sqrt(mean*a.params.Variance)
	}

	return -(math.Ln2 + logSurvival(math.Abs(delta)) + math.Log(prior))
}

// logSurvival is log(1 - Phi(x)) for a standard normal, with an asymptotic
// tail where the survival function underflows
func logSurvival(x float64) float64 {
	if sf := distuv.UnitNormal.Survival(x); sf > 0 {
		return math.Log(sf)
	}
	return -x*x/2 - math.Log(x) - 0.5*math.Log(2*math.Pi)
}

func sum(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

// expand turns beads into index pairs
func expand(beads []Bead) types.Correspondence {
	var out types.Correspondence
	si, ti := 0, 0
	pendingSource, pendingTarget := 0, 0

	for _, b := range beads {
		switch {
		case b.Target == 0:
			if len(out) > 0 {
				last := out[len(out)-1]
				for k := 0; k < b.Source; k++ {
					out = append(out, types.IndexPair{Source: si + k, Target: last.Target})
				}
			} else {
				pendingSource += b.Source
			}
		case b.Source == 0:
			if len(out) > 0 {
				last := out[len(out)-1]
				for k := 0; k < b.Target; k++ {
					out = append(out, types.IndexPair{Source: last.Source, Target: ti + k})
				}
			} else {
				pendingTarget += b.Target
			}
		default:
			out = append(out, staircase(si-pendingSource, ti-pendingTarget, b.Source+pendingSource, b.Target+pendingTarget)...)
			pendingSource, pendingTarget = 0, 0
		}
		si += b.Source
		ti += b.Target
	}

	// Only insertions and deletions: pair them up as one bead.
	if pendingSource > 0 && pendingTarget > 0 {
		out = append(out, staircase(0, 0, pendingSource, pendingTarget)...)
	}
	return out
}

func staircase(s0, t0, ns, nt int) types.Correspondence {
	out := make(types.Correspondence, 0, ns+nt-1)
	for k := 0; k < nt; k++ {
		out = append(out, types.IndexPair{Source: s0, Target: t0 + k})
	}
	for k := 1; k < ns; k++ {
		out = append(out, types.IndexPair{Source: s0 + k, Target: t0 + nt - 1})
	}
	return out
}
