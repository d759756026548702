package alignment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jonathan/bitext-aligner/internal/galechurch"
	"github.com/jonathan/bitext-aligner/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAligner delegates to Gale-Church and counts calls
type countingAligner struct {
	calls atomic.Int32
	inner SequenceAligner
}

func newCountingAligner() *countingAligner {
	return &countingAligner{inner: galechurch.NewDefault()}
}

func (c *countingAligner) Align(source, target []int) (types.Correspondence, error) {
	c.calls.Add(1)
	return c.inner.Align(source, target)
}

// fixedAligner returns a canned correspondence
type fixedAligner struct {
	corr types.Correspondence
	err  error
}

func (f fixedAligner) Align(_, _ []int) (types.Correspondence, error) {
	return f.corr, f.err
}

func text(blocks ...types.Block) *types.Text {
	return &types.Text{Blocks: blocks}
}

// sampleTexts builds two parallel texts of n blocks with uneven sentence splits
func sampleTexts(n int) (*types.Text, *types.Text) {
	var source, target []types.Block
	for b := 0; b < n; b++ {
		source = append(source, body(
			fmt.Sprintf("Block %d opens with a fairly long first sentence here.", b),
			fmt.Sprintf("Short %d.", b),
			fmt.Sprintf("Then %d continues.", b),
			fmt.Sprintf("And block %d closes with one more sentence of text.", b),
		))
		target = append(target, body(
			fmt.Sprintf("Le bloc %d commence par une assez longue premiere phrase ici.", b),
			fmt.Sprintf("Court %d. Puis %d continue.", b, b),
			fmt.Sprintf("Et le bloc %d se termine par une phrase de texte.", b),
		))
	}
	return text(source...), text(target...)
}

func TestNewSession_StructuralMismatch(t *testing.T) {
	aligner := newCountingAligner()
	source := text(body("A."), body("B."), body("C."))
	target := text(body("A."), body("B."))

	s, err := NewSession(source, target, aligner)

	require.Error(t, err)
	assert.Nil(t, s)
	var mismatch *StructuralMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.SourceBlocks)
	assert.Equal(t, 2, mismatch.TargetBlocks)
	assert.True(t, IsFatal(err))
	assert.Zero(t, aligner.calls.Load())
}

func TestBuildBitext_PartitionsSentences(t *testing.T) {
	source, target := sampleTexts(3)
	s, err := NewSession(source, target, galechurch.NewDefault())
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, bitext.Pairs)

	// Joining the entries of a block must give back each side's sentences exactly once, in order.
	var gotSource, gotTarget []string
	for _, e := range bitext.Pairs {
		gotSource = append(gotSource, e.Source.Text)
		gotTarget = append(gotTarget, e.Target.Text)
	}
	assert.Equal(t, joinText(source), strings.Join(gotSource, " "))
	assert.Equal(t, joinText(target), strings.Join(gotTarget, " "))
	assert.Same(t, bitext, s.Bitext())
}

func TestBuildBitext_EntryCountIsMergedCount(t *testing.T) {
	source := text(body("S0", "S1", "S2"))
	target := text(body("T0", "T1"))
	raw := corr([2]int{0, 0}, [2]int{1, 0}, [2]int{2, 1})
	s, err := NewSession(source, target, fixedAligner{corr: raw})
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, bitext.Len())
	stored, ok := s.Correspondence(0)
	require.True(t, ok)
	assert.Len(t, stored, 3)
}

func TestBuildBitext_BlocksDoNotMerge(t *testing.T) {
	source := text(body("S0"), body("S1"))
	target := text(body("T0"), body("T1"))
	s, err := NewSession(source, target, fixedAligner{corr: corr([2]int{0, 0})})
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"S0", "T0"}, {"S1", "T1"}}, entryTexts(bitext.Pairs))
}

func TestRebuild_Idempotent(t *testing.T) {
	source, target := sampleTexts(2)
	s, err := NewSession(source, target, galechurch.NewDefault())
	require.NoError(t, err)

	first, err := s.BuildBitext(context.Background())
	require.NoError(t, err)
	second, err := s.Rebuild()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestBuildBitext_EmptyBlock(t *testing.T) {
	aligner := newCountingAligner()
	source := text(body("S0."), types.NewBlock(nil), body("Only source."))
	target := text(body("T0."), types.NewBlock(nil), types.NewBlock(nil))
	s, err := NewSession(source, target, aligner)
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())
	require.NoError(t, err)

	// the source-only block contributes no entry at all
	assert.Equal(t, [][2]string{{"S0.", "T0."}}, entryTexts(bitext.Pairs))
	assert.EqualValues(t, 1, aligner.calls.Load())
	corr1, ok := s.Correspondence(1)
	assert.True(t, ok)
	assert.Empty(t, corr1)
}

func TestBuildBitext_DuplicatePairAborts(t *testing.T) {
	source := text(body("S0", "S1"))
	target := text(body("T0", "T1"))
	s, err := NewSession(source, target, fixedAligner{corr: corr([2]int{0, 0}, [2]int{1, 1}, [2]int{1, 1})})
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())

	assert.Nil(t, bitext)
	assert.Nil(t, s.Bitext())
	var violation *AlignerContractViolationError
	require.ErrorAs(t, err, &violation)
	assert.True(t, IsFatal(err))
}

func TestBuildBitext_AlignerError(t *testing.T) {
	boom := errors.New("boom")
	source, target := sampleTexts(2)
	s, err := NewSession(source, target, fixedAligner{err: boom})
	require.NoError(t, err)

	bitext, err := s.BuildBitext(context.Background())

	assert.Nil(t, bitext)
	var blockErr *AlignBlockError
	require.ErrorAs(t, err, &blockErr)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsFatal(err))
	assert.Empty(t, s.Correspondences())
}

func TestAlignAll_ParallelMatchesSequential(t *testing.T) {
	source, target := sampleTexts(12)

	sequential, err := NewSession(source, target, galechurch.NewDefault(), WithWorkers(1))
	require.NoError(t, err)
	want, err := sequential.BuildBitext(context.Background())
	require.NoError(t, err)

	var reports []Progress
	parallel, err := NewSession(source, target, galechurch.NewDefault(), WithWorkers(4),
		WithProgress(func(p Progress) { reports = append(reports, p) }))
	require.NoError(t, err)
	got, err := parallel.BuildBitext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, want, got)
	require.Len(t, reports, 12)
	seen := make(map[int]bool)
	for i, p := range reports {
		assert.Equal(t, 12, p.Total)
		assert.Equal(t, i+1, p.Done)
		seen[p.Block] = true
	}
	assert.Len(t, seen, 12)
}

func TestAlignAll_Cancelled(t *testing.T) {
	source, target := sampleTexts(3)
	s, err := NewSession(source, target, galechurch.NewDefault())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.AlignAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Correspondences())
}

func TestAlignBlock_Incremental(t *testing.T) {
	aligner := newCountingAligner()
	source, target := sampleTexts(3)
	var reports []Progress
	s, err := NewSession(source, target, aligner, WithProgress(func(p Progress) { reports = append(reports, p) }))
	require.NoError(t, err)

	require.NoError(t, s.AlignBlock(1))
	assert.Equal(t, []Progress{{Block: 1, Done: 1, Total: 3, Entries: reports[0].Entries}}, reports)

	_, err = s.BuildBitext(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, aligner.calls.Load())

	assert.Error(t, s.AlignBlock(3))
}

func TestRestoreSession_RebuildsWithoutAligner(t *testing.T) {
	source, target := sampleTexts(2)
	s, err := NewSession(source, target, galechurch.NewDefault())
	require.NoError(t, err)
	want, err := s.BuildBitext(context.Background())
	require.NoError(t, err)

	restored, err := RestoreSession(source, target, s.Correspondences(), want)
	require.NoError(t, err)
	assert.Same(t, want, restored.Bitext())

	got, err := restored.Rebuild()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = RestoreSession(source, target, map[int]types.Correspondence{5: nil}, nil)
	assert.Error(t, err)
}

func TestRebuild_RequiresAlignment(t *testing.T) {
	source, target := sampleTexts(1)
	s, err := NewSession(source, target, nil)
	require.NoError(t, err)

	_, err = s.Rebuild()
	assert.Error(t, err)
	assert.Error(t, s.AlignBlock(0))
}

func joinText(t *types.Text) string {
	var parts []string
	for _, b := range t.Blocks {
		for _, s := range b.Sentences {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}
