// Package pipeline provides the high-level orchestration of segmenting, aligning,
// persisting and rendering a pair of parallel texts.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/bitext-aligner/internal/alignment"
	"github.com/jonathan/bitext-aligner/internal/galechurch"
	"github.com/jonathan/bitext-aligner/internal/glossary"
	"github.com/jonathan/bitext-aligner/internal/logger"
	"github.com/jonathan/bitext-aligner/internal/observability"
	"github.com/jonathan/bitext-aligner/internal/rendering"
	"github.com/jonathan/bitext-aligner/internal/segmentation"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
	"github.com/jonathan/bitext-aligner/internal/types"
)

// Step names reported in progress events
const (
	StepSegmentSource = "segment_source"
	StepSegmentTarget = "segment_target"
	StepAlignBlock    = "align_block"
	StepBuildBitext   = "build_bitext"
	StepGlossary      = "glossary"
	StepSaveSnapshot  = "save_snapshot"
	StepLoadSnapshot  = "load_snapshot"
	StepRender        = "render"
)

// Step categories
const (
	CategorySegmentation = "segmentation"
	CategoryAlignment    = "alignment"
	CategoryPersistence  = "persistence"
	CategoryOutput       = "output"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// GlossaryOptions configures glossary induction
type GlossaryOptions struct {
	SourceLang string
	TargetLang string
	Threshold  float64
	Iterations int
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	SourcePath string
	TargetPath string
	OutputPath string // rendered output, skipped when empty
	Render     rendering.Options

	SnapshotPath string         // snapshot file to write, skipped when empty
	Store        snapshot.Store // additional snapshot store, optional

	GlossaryPath string // glossary TSV, skipped when empty
	Glossary     GlossaryOptions

	Detector string                          // "punkt" (default) or "paragraph"
	Rules    *segmentation.SegmentationRules // overrides Detector when set
	Aligner  alignment.SequenceAligner       // defaults to Gale-Church
	Workers  int

	Verbose    bool
	Logger     *logger.Logger
	Out        io.Writer // step lines, defaults to stdout
	OnProgress ProgressCallback
}

// Result is what a pipeline run produced
type Result struct {
	Session  *alignment.Session
	Snapshot *snapshot.Snapshot
	Glossary *glossary.Result
}

// emitProgress calls the progress callback if configured
func emitProgress(fn ProgressCallback, step, category, message string, content any) {
	if fn != nil {
		fn(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// stepPrinter numbers the "Step i/N" lines
type stepPrinter struct {
	out   io.Writer
	n     int
	total int
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (s *stepPrinter) next(format string, args ...any) {
	s.n++
	fmt.Fprintf(s.out, "Step %d/%d: %s\n", s.n, s.total, fmt.Sprintf(format, args...))
}

func outputOf(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func loggerOf(l *logger.Logger) *logger.Logger {
	if l == nil {
		return logger.Nop()
	}
	return l
}

// NewDetector loads the named sentence detector: "punkt" (default) or "paragraph"
func NewDetector(name string) (segmentation.Detector, error) {
	punkt, err := segmentation.NewPunktDetector()
	if err != nil {
		return nil, err
	}

	switch name {
	case "", "punkt":
		return punkt, nil
	case "paragraph":
		return segmentation.ParagraphDetector{Inner: punkt}, nil
	default:
		return nil, fmt.Errorf("unknown sentence detector %q (want punkt or paragraph)", name)
	}
}

// NewSegmenter builds a segmenter with the default patterns and the named sentence detector
func NewSegmenter(detector string) (*segmentation.Segmenter, error) {
	d, err := NewDetector(detector)
	if err != nil {
		return nil, err
	}
	return segmentation.NewSegmenter(segmentation.DefaultRules(d))
}

// RunPipeline segments both texts, aligns them block by block, builds the bitext,
// and then writes whichever of glossary, snapshot and rendered output were requested.
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	log := loggerOf(opts.Logger)
	out := outputOf(opts.Out)
	printer := observability.NewPrinter(out)

	steps := &stepPrinter{out: out, total: 3}
	if opts.GlossaryPath != "" {
		steps.total++
	}
	if opts.SnapshotPath != "" || opts.Store != nil {
		steps.total++
	}
	if opts.OutputPath != "" {
		steps.total++
	}

	var segmenter *segmentation.Segmenter
	var err error
	if opts.Rules != nil {
		segmenter, err = segmentation.NewSegmenter(*opts.Rules)
	} else {
		segmenter, err = NewSegmenter(opts.Detector)
	}
	if err != nil {
		return nil, fmt.Errorf("creating segmenter failed: %w", err)
	}

	// Step 1: segment both inputs in parallel
	steps.next("Segmenting %s and %s...", opts.SourcePath, opts.TargetPath)
	source, target, err := segmentBoth(ctx, segmenter, opts.SourcePath, opts.TargetPath)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		printer.PrintSegmentation("source", source)
		printer.PrintSegmentation("target", target)
	}
	emitProgress(opts.OnProgress, StepSegmentSource, CategorySegmentation,
		fmt.Sprintf("Segmented %s into %d blocks", opts.SourcePath, len(source.Blocks)), nil)
	emitProgress(opts.OnProgress, StepSegmentTarget, CategorySegmentation,
		fmt.Sprintf("Segmented %s into %d blocks", opts.TargetPath, len(target.Blocks)), nil)

	// Step 2: align every block
	aligner := opts.Aligner
	if aligner == nil {
		aligner = galechurch.NewDefault()
	}
	session, err := alignment.NewSession(source, target, aligner,
		alignment.WithLogger(log),
		alignment.WithWorkers(opts.Workers),
		alignment.WithProgress(func(p alignment.Progress) {
			emitProgress(opts.OnProgress, StepAlignBlock, CategoryAlignment,
				fmt.Sprintf("Aligned block %d (%d/%d)", p.Block, p.Done, p.Total), p)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot align %s with %s: %w", opts.SourcePath, opts.TargetPath, err)
	}

	steps.next("Aligning %d blocks...", session.BlocksNumber())
	if err := session.AlignAll(ctx); err != nil {
		return nil, fmt.Errorf("alignment failed: %w", err)
	}

	// Step 3: merge correspondences into the bitext
	steps.next("Building bitext...")
	bitext, err := session.Rebuild()
	if err != nil {
		return nil, fmt.Errorf("building bitext failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintBitext(bitext)
	}
	emitProgress(opts.OnProgress, StepBuildBitext, CategoryAlignment,
		fmt.Sprintf("Built bitext with %d entries", bitext.Len()), nil)

	result := &Result{Session: session}

	if opts.GlossaryPath != "" {
		steps.next("Inducing glossary...")
		res, err := induce(bitext, opts.Glossary)
		if err != nil {
			return nil, err
		}
		if err := writeGlossary(opts.GlossaryPath, res.Entries); err != nil {
			return nil, err
		}
		if opts.Verbose {
			printer.PrintGlossary(res.Entries)
		}
		result.Glossary = res
		emitProgress(opts.OnProgress, StepGlossary, CategoryOutput,
			fmt.Sprintf("Wrote %d glossary entries to %s", len(res.Entries), opts.GlossaryPath), nil)
	}

	if opts.SnapshotPath != "" || opts.Store != nil {
		steps.next("Saving snapshot...")
		var model types.ProbTable
		if result.Glossary != nil {
			model = result.Glossary.Table
		}
		snap, err := snapshot.FromSession(session, model)
		if err != nil {
			return nil, err
		}
		if opts.SnapshotPath != "" {
			if err := snapshot.SaveFile(opts.SnapshotPath, snap); err != nil {
				return nil, fmt.Errorf("saving snapshot failed: %w", err)
			}
		}
		if opts.Store != nil {
			if err := opts.Store.Save(ctx, snap); err != nil {
				return nil, fmt.Errorf("saving snapshot failed: %w", err)
			}
		}
		result.Snapshot = snap
		log.Info("saved snapshot", "id", snap.ID, "path", opts.SnapshotPath)
		emitProgress(opts.OnProgress, StepSaveSnapshot, CategoryPersistence,
			fmt.Sprintf("Saved snapshot %s", snap.ID), nil)
	}

	if opts.OutputPath != "" {
		steps.next("Rendering %s...", opts.OutputPath)
		if err := rendering.WriteFile(opts.OutputPath, bitext, opts.Render); err != nil {
			return nil, fmt.Errorf("rendering failed: %w", err)
		}
		emitProgress(opts.OnProgress, StepRender, CategoryOutput,
			fmt.Sprintf("Rendered %s", opts.OutputPath), nil)
	}

	return result, nil
}

// segmentBoth segments the two inputs concurrently
func segmentBoth(ctx context.Context, segmenter *segmentation.Segmenter, sourcePath, targetPath string) (*types.Text, *types.Text, error) {
	g, _ := errgroup.WithContext(ctx)

	var source, target *types.Text
	var mu sync.Mutex // protect result assignments

	g.Go(func() error {
		text, err := segmenter.Segment(sourcePath)
		if err != nil {
			return fmt.Errorf("segmenting source failed: %w", err)
		}
		mu.Lock()
		source = text
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		text, err := segmenter.Segment(targetPath)
		if err != nil {
			return fmt.Errorf("segmenting target failed: %w", err)
		}
		mu.Lock()
		target = text
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return source, target, nil
}
