package alignment

import (
	"github.com/jonathan/bitext-aligner/internal/types"
)

// SequenceAligner maps two sequences of sentence lengths to a monotonic correspondence
type SequenceAligner interface {
	Align(source, target []int) (types.Correspondence, error)
}

// BlockAligner feeds a block pair's length profiles to a SequenceAligner.
// It does no interpretation of the result.
type BlockAligner struct {
	aligner SequenceAligner
}

// NewBlockAligner creates a BlockAligner over the given sequence aligner
func NewBlockAligner(aligner SequenceAligner) *BlockAligner {
	return &BlockAligner{aligner: aligner}
}

// Align returns the sequence aligner's correspondence for the two blocks unmodified
func (b *BlockAligner) Align(source, target types.Block) (types.Correspondence, error) {
	return b.aligner.Align(source.Lengths, target.Lengths)
}
