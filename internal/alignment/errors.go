// Package alignment aligns two segmented texts block by block and merges the raw
// correspondences into a bitext.
package alignment

import (
	"errors"
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// StructuralMismatchError means the two documents do not have the same number of blocks.
// The inputs are not comparable; retrying will not help.
type StructuralMismatchError struct {
	SourceBlocks int
	TargetBlocks int
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("structural mismatch: source has %d blocks, target has %d", e.SourceBlocks, e.TargetBlocks)
}

// AlignerContractViolationError means a correspondence broke the aligner contract:
// a pair repeated the previous one, went backwards or pointed outside the block.
type AlignerContractViolationError struct {
	Block    int
	Position int
	Pair     types.IndexPair
	Reason   string
}

func (e *AlignerContractViolationError) Error() string {
	return fmt.Sprintf("aligner contract violation in block %d at position %d (%d, %d): %s",
		e.Block, e.Position, e.Pair.Source, e.Pair.Target, e.Reason)
}

// AlignBlockError wraps a failure of the sequence aligner for one block
type AlignBlockError struct {
	Block int
	Cause error
}

func (e *AlignBlockError) Error() string {
	return fmt.Sprintf("failed to align block %d: %v", e.Block, e.Cause)
}

func (e *AlignBlockError) Unwrap() error {
	return e.Cause
}

// IsFatal reports whether err is one of the conditions that must abort a run:
// incomparable inputs or a broken aligner contract
func IsFatal(err error) bool {
	var mismatch *StructuralMismatchError
	var violation *AlignerContractViolationError
	return errors.As(err, &mismatch) || errors.As(err, &violation)
}
