package alignment

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/bitext-aligner/internal/logger"
	"github.com/jonathan/bitext-aligner/internal/types"
)

// Progress is reported after each block is aligned
type Progress struct {
	Block   int // index of the block just aligned
	Done    int // blocks aligned so far
	Total   int
	Entries int // correspondence length for the block
}

// ProgressFunc receives progress updates. Calls are serialized.
type ProgressFunc func(Progress)

// Session owns both texts, the per-block correspondences and the bitext built from them
type Session struct {
	source          *types.Text
	target          *types.Text
	aligner         *BlockAligner
	correspondences map[int]types.Correspondence
	bitext          *types.Bitext

	log        *logger.Logger
	onProgress ProgressFunc
	workers    int
	progressMu sync.Mutex
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithProgress sets the progress sink
func WithProgress(fn ProgressFunc) Option {
	return func(s *Session) {
		s.onProgress = fn
	}
}

// WithWorkers sets how many blocks are aligned concurrently; values below 1 use GOMAXPROCS
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		s.workers = n
	}
}

// NewSession creates a session for two texts. The texts must have the same number of
// blocks; otherwise a StructuralMismatchError is returned and nothing is aligned.
func NewSession(source, target *types.Text, aligner SequenceAligner, opts ...Option) (*Session, error) {
	if source == nil || target == nil {
		return nil, fmt.Errorf("both source and target texts are required")
	}
	if len(source.Blocks) != len(target.Blocks) {
		return nil, &StructuralMismatchError{SourceBlocks: len(source.Blocks), TargetBlocks: len(target.Blocks)}
	}

	s := &Session{
		source:          source,
		target:          target,
		correspondences: make(map[int]types.Correspondence),
		log:             logger.Nop(),
		workers:         1,
	}
	if aligner != nil {
		s.aligner = NewBlockAligner(aligner)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RestoreSession recreates a session from previously computed state without aligning anything
func RestoreSession(source, target *types.Text, correspondences map[int]types.Correspondence, bitext *types.Bitext, opts ...Option) (*Session, error) {
	s, err := NewSession(source, target, nil, opts...)
	if err != nil {
		return nil, err
	}
	for n, corr := range correspondences {
		if n < 0 || n >= s.BlocksNumber() {
			return nil, fmt.Errorf("correspondence for block %d outside of %d blocks", n, s.BlocksNumber())
		}
		s.correspondences[n] = corr
	}
	s.bitext = bitext
	return s, nil
}

// Source returns the source text
func (s *Session) Source() *types.Text { return s.source }

// Target returns the target text
func (s *Session) Target() *types.Text { return s.target }

// Bitext returns the built bitext, or nil before BuildBitext succeeded
func (s *Session) Bitext() *types.Bitext { return s.bitext }

// BlocksNumber returns the number of blocks in each text
func (s *Session) BlocksNumber() int {
	return len(s.source.Blocks)
}

// Correspondence returns the stored correspondence of block n
func (s *Session) Correspondence(n int) (types.Correspondence, bool) {
	corr, ok := s.correspondences[n]
	return corr, ok
}

// Correspondences returns a copy of the correspondence map keyed by block index
func (s *Session) Correspondences() map[int]types.Correspondence {
	out := make(map[int]types.Correspondence, len(s.correspondences))
	for n, corr := range s.correspondences {
		out[n] = corr
	}
	return out
}

// AlignBlock aligns block n, stores its correspondence and reports progress
func (s *Session) AlignBlock(n int) error {
	if n < 0 || n >= s.BlocksNumber() {
		return fmt.Errorf("block %d out of range [0, %d)", n, s.BlocksNumber())
	}
	corr, err := s.alignBlock(n)
	if err != nil {
		return err
	}
	s.correspondences[n] = corr
	s.report(Progress{Block: n, Done: len(s.correspondences), Total: s.BlocksNumber(), Entries: len(corr)})
	return nil
}

// alignBlock computes block n without touching session state
func (s *Session) alignBlock(n int) (types.Correspondence, error) {
	if s.aligner == nil {
		return nil, fmt.Errorf("session has no sequence aligner")
	}
	fb, tb := s.source.Blocks[n], s.target.Blocks[n]
	if len(fb.Sentences) == 0 || len(tb.Sentences) == 0 {
		if len(fb.Sentences)+len(tb.Sentences) > 0 {
			s.log.Warn("block has no counterpart sentences; skipping",
				"block", n, "source_sentences", len(fb.Sentences), "target_sentences", len(tb.Sentences))
		}
		return types.Correspondence{}, nil
	}

	corr, err := s.aligner.Align(fb, tb)
	if err != nil {
		return nil, &AlignBlockError{Block: n, Cause: err}
	}
	s.log.Debug("aligned block", "block", n, "pairs", len(corr))
	return corr, nil
}

// AlignAll aligns every block that has no correspondence yet, using the configured
// number of workers. Results are stored only when every block succeeded.
func (s *Session) AlignAll(ctx context.Context) error {
	total := s.BlocksNumber()
	results := make([]types.Correspondence, total)
	pending := make([]bool, total)
	done := len(s.correspondences)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))

	for n := 0; n < total; n++ {
		if _, ok := s.correspondences[n]; ok {
			continue
		}
		pending[n] = true
		n := n
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			corr, err := s.alignBlock(n)
			if err != nil {
				return err
			}
			results[n] = corr

			s.progressMu.Lock()
			defer s.progressMu.Unlock()
			done++
			s.emit(Progress{Block: n, Done: done, Total: total, Entries: len(corr)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for n := 0; n < total; n++ {
		if pending[n] {
			s.correspondences[n] = results[n]
		}
	}
	return nil
}

func (s *Session) report(p Progress) {
	s.progressMu.Lock()
	defer s.progressMu.Unlock()
	s.emit(p)
}

// emit must be called with progressMu held
func (s *Session) emit(p Progress) {
	if s.onProgress != nil {
		s.onProgress(p)
	}
}

// BuildBitext aligns any blocks still missing and merges all correspondences,
// in block order, into the session bitext. On error no bitext is kept.
func (s *Session) BuildBitext(ctx context.Context) (*types.Bitext, error) {
	if err := s.AlignAll(ctx); err != nil {
		return nil, err
	}
	return s.Rebuild()
}

// Rebuild merges the stored correspondences into a fresh bitext without aligning
func (s *Session) Rebuild() (*types.Bitext, error) {
	bitext := &types.Bitext{}
	for n := 0; n < s.BlocksNumber(); n++ {
		corr, ok := s.correspondences[n]
		if !ok {
			return nil, fmt.Errorf("block %d has not been aligned", n)
		}
		entries, err := Merge(n, s.source.Blocks[n], s.target.Blocks[n], corr)
		if err != nil {
			s.bitext = nil
			return nil, err
		}
		bitext.Pairs = append(bitext.Pairs, entries...)
	}

	s.bitext = bitext
	s.log.Info("built bitext", "blocks", s.BlocksNumber(), "entries", len(bitext.Pairs))
	return bitext, nil
}
