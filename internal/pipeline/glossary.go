package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/bitext-aligner/internal/alignment"
	"github.com/jonathan/bitext-aligner/internal/glossary"
	"github.com/jonathan/bitext-aligner/internal/logger"
	"github.com/jonathan/bitext-aligner/internal/stemming"
	"github.com/jonathan/bitext-aligner/internal/types"
	"github.com/jonathan/bitext-aligner/internal/wordalign"
)

// RestoreOptions returns the session options used when restoring a snapshot
func RestoreOptions(l *logger.Logger) []alignment.Option {
	return []alignment.Option{alignment.WithLogger(loggerOf(l))}
}

func thresholdOf(opts GlossaryOptions) float64 {
	if opts.Threshold <= 0 {
		return glossary.DefaultThreshold
	}
	return opts.Threshold
}

// induce trains Model 1 on the stemmed bitext and filters the table
func induce(bitext *types.Bitext, opts GlossaryOptions) (*glossary.Result, error) {
	source, err := stemming.ForLanguage(opts.SourceLang)
	if err != nil {
		return nil, fmt.Errorf("source language: %w", err)
	}
	target, err := stemming.ForLanguage(opts.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("target language: %w", err)
	}

	trainer := wordalign.Model1{Iterations: opts.Iterations}
	res, err := glossary.Induce(bitext, source, target, trainer, thresholdOf(opts))
	if err != nil {
		return nil, fmt.Errorf("glossary induction failed: %w", err)
	}
	return res, nil
}

func writeGlossary(path string, entries []types.WordTranslation) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create glossary directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create glossary file: %w", err)
	}
	if err := glossary.WriteTSV(f, entries); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write glossary: %w", err)
	}
	return f.Close()
}
