package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/bitext-aligner/internal/glossary"
	"github.com/jonathan/bitext-aligner/internal/logger"
	"github.com/jonathan/bitext-aligner/internal/observability"
	"github.com/jonathan/bitext-aligner/internal/rendering"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
)

// SnapshotSource locates a snapshot: a file path, or an ID in a store
type SnapshotSource struct {
	Path  string
	Store snapshot.Store
	ID    string
}

// Load reads the snapshot
func (s SnapshotSource) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	switch {
	case s.Path != "":
		return snapshot.LoadFile(s.Path)
	case s.Store != nil && s.ID != "":
		snap, err := s.Store.Load(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot %s: %w", s.ID, err)
		}
		return snap, nil
	default:
		return nil, fmt.Errorf("no snapshot given")
	}
}

// Save writes the snapshot back to where it was loaded from
func (s SnapshotSource) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if s.Path != "" {
		return snapshot.SaveFile(s.Path, snap)
	}
	if s.Store != nil {
		return s.Store.Save(ctx, snap)
	}
	return fmt.Errorf("no snapshot given")
}

// RenderOptions holds configuration for rendering a stored alignment
type RenderOptions struct {
	Snapshot   SnapshotSource
	OutputPath string
	Render     rendering.Options
	Verbose    bool
	Logger     *logger.Logger
	Out        io.Writer
	OnProgress ProgressCallback
}

// RenderSnapshot renders the bitext of a stored alignment. Nothing is aligned again.
func RenderSnapshot(ctx context.Context, opts RenderOptions) error {
	out := outputOf(opts.Out)
	steps := &stepPrinter{out: out, total: 2}

	steps.next("Loading snapshot...")
	snap, err := opts.Snapshot.Load(ctx)
	if err != nil {
		return err
	}
	session, err := snap.Restore(RestoreOptions(opts.Logger)...)
	if err != nil {
		return fmt.Errorf("restoring snapshot failed: %w", err)
	}
	if opts.Verbose {
		observability.NewPrinter(out).PrintBitext(session.Bitext())
	}
	emitProgress(opts.OnProgress, StepLoadSnapshot, CategoryPersistence,
		fmt.Sprintf("Loaded snapshot %s with %d entries", snap.ID, session.Bitext().Len()), nil)

	steps.next("Rendering %s...", opts.OutputPath)
	if err := rendering.WriteFile(opts.OutputPath, session.Bitext(), opts.Render); err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}
	emitProgress(opts.OnProgress, StepRender, CategoryOutput, fmt.Sprintf("Rendered %s", opts.OutputPath), nil)
	return nil
}

// GlossaryRunOptions holds configuration for inducing a glossary from a stored alignment
type GlossaryRunOptions struct {
	Snapshot   SnapshotSource
	OutputPath string
	Glossary   GlossaryOptions
	// Retrain ignores a translation table stored in the snapshot
	Retrain bool
	// SaveModel writes a newly trained table back into the snapshot
	SaveModel  bool
	Verbose    bool
	Logger     *logger.Logger
	Out        io.Writer
	OnProgress ProgressCallback
}

// InduceGlossary filters the snapshot's translation table into a glossary,
// training the table first when the snapshot has none
func InduceGlossary(ctx context.Context, opts GlossaryRunOptions) (*glossary.Result, error) {
	out := outputOf(opts.Out)
	log := loggerOf(opts.Logger)
	steps := &stepPrinter{out: out, total: 2}

	steps.next("Loading snapshot...")
	snap, err := opts.Snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	var res *glossary.Result
	if len(snap.Model) > 0 && !opts.Retrain {
		steps.next("Filtering stored translation table...")
		res = &glossary.Result{Entries: glossary.Filter(snap.Model, thresholdOf(opts.Glossary)), Table: snap.Model}
	} else {
		steps.next("Training word alignment model...")
		bitext, err := snap.BitextValue()
		if err != nil {
			return nil, err
		}
		res, err = induce(bitext, opts.Glossary)
		if err != nil {
			return nil, err
		}
		if opts.SaveModel {
			snap.Model = res.Table
			if err := opts.Snapshot.Save(ctx, snap); err != nil {
				return nil, fmt.Errorf("saving trained model failed: %w", err)
			}
			log.Info("stored translation table in snapshot", "id", snap.ID, "words", len(res.Table))
		}
	}

	if opts.OutputPath != "" {
		if err := writeGlossary(opts.OutputPath, res.Entries); err != nil {
			return nil, err
		}
	}
	if opts.Verbose {
		observability.NewPrinter(out).PrintGlossary(res.Entries)
	}
	emitProgress(opts.OnProgress, StepGlossary, CategoryOutput,
		fmt.Sprintf("Induced %d glossary entries", len(res.Entries)), nil)
	return res, nil
}
