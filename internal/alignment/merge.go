package alignment

import (
	"github.com/jonathan/bitext-aligner/internal/types"
)

// Merge collapses one block's correspondence into bitext entries.
//
// A pair that moves both indices starts a new entry. A pair that holds the
// source index appends the target sentence to the last entry's target side,
// one that holds the target index appends the source sentence to its source side.
// Sentences are copied, so the blocks are never modified.
func Merge(blockIndex int, source, target types.Block, corr types.Correspondence) ([]types.BitextPair, error) {
	out := make([]types.BitextPair, 0, len(corr))
	prev := types.IndexPair{Source: -1, Target: -1}

	for pos, p := range corr {
		violation := func(reason string) error {
			return &AlignerContractViolationError{Block: blockIndex, Position: pos, Pair: p, Reason: reason}
		}

		switch {
		case p == prev:
			return nil, violation("pair repeats the previous pair")
		case p.Source < 0 || p.Source >= len(source.Sentences):
			return nil, violation("source index out of range")
		case p.Target < 0 || p.Target >= len(target.Sentences):
			return nil, violation("target index out of range")
		case p.Source < prev.Source || p.Target < prev.Target:
			return nil, violation("correspondence is not monotonic")
		}

		fs := source.Sentences[p.Source]
		ts := target.Sentences[p.Target]
		switch {
		case p.Source != prev.Source && p.Target != prev.Target:
			out = append(out, types.BitextPair{Source: fs, Target: ts})
		case p.Source == prev.Source:
			last := &out[len(out)-1]
			last.Target.Text = join(last.Target.Text, ts.Text)
		default:
			last := &out[len(out)-1]
			last.Source.Text = join(last.Source.Text, fs.Text)
		}
		prev = p
	}

	return out, nil
}

func join(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
