package main

import (
	"context"
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/logger"
	"github.com/jonathan/bitext-aligner/internal/pipeline"
	"github.com/jonathan/bitext-aligner/internal/segmentation"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
)

// newLogger builds the CLI logger. --verbose switches to debug output unless a mode was set explicitly.
func newLogger(mode string, verbose bool) (*logger.Logger, error) {
	if mode == "" && verbose {
		mode = "debug"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// openStore opens the configured snapshot store. It returns nil when no store is configured:
// file and SQLite stores need a location, PostgreSQL needs a database URL.
func openStore(ctx context.Context, cfg config.Config) (snapshot.Store, error) {
	switch cfg.Store {
	case snapshot.KindPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("--db-url or %s is required for the postgres store", config.EnvDatabaseURL)
		}
		store, err := snapshot.Open(ctx, cfg.Store, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		return store, nil
	default:
		if cfg.StoreLocation == "" {
			return nil, nil
		}
		store, err := snapshot.Open(ctx, cfg.Store, cfg.StoreLocation)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		return store, nil
	}
}

// loadConfigFile loads an optional config file and checks its fields.
// Cross-field rules wait until flags and environment are applied.
func loadConfigFile(path string, verbose bool, cmdOut func(format string, args ...any)) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.ValidateFields(); err != nil {
		return config.Config{}, err
	}
	if verbose {
		cmdOut("Loaded config from: %s\n", path)
	}
	return *loaded, nil
}

// snapshotSource resolves --snapshot or --id into a pipeline.SnapshotSource.
// The returned func closes the store, if one was opened.
func snapshotSource(ctx context.Context, path, id string, cfg config.Config) (pipeline.SnapshotSource, func(), error) {
	noop := func() {}
	switch {
	case path != "" && id != "":
		return pipeline.SnapshotSource{}, noop, fmt.Errorf("--snapshot and --id are mutually exclusive; provide only one")
	case path != "":
		return pipeline.SnapshotSource{Path: path}, noop, nil
	case id == "":
		return pipeline.SnapshotSource{}, noop, fmt.Errorf("either --snapshot or --id must be provided")
	}

	cfg.ApplyEnv()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return pipeline.SnapshotSource{}, noop, err
	}
	if store == nil {
		return pipeline.SnapshotSource{}, noop, fmt.Errorf("--id needs a store: set --store-location, or --db-url for postgres")
	}
	return pipeline.SnapshotSource{Store: store, ID: id}, func() { _ = store.Close() }, nil
}

// segmentationRules compiles the configured patterns; nil means the defaults apply
func segmentationRules(cfg config.Config) (*segmentation.SegmentationRules, error) {
	if cfg.BlockSeparator == "" && cfg.PartPattern == "" && cfg.ChapterPattern == "" {
		return nil, nil
	}
	detector, err := pipeline.NewDetector(cfg.Detector)
	if err != nil {
		return nil, err
	}
	rules, err := segmentation.CompileRules(cfg.BlockSeparator, cfg.PartPattern, cfg.ChapterPattern, detector)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return &rules, nil
}

// newSegmenter builds a segmenter from the configured detector and patterns
func newSegmenter(cfg config.Config) (*segmentation.Segmenter, error) {
	rules, err := segmentationRules(cfg)
	if err != nil {
		return nil, err
	}
	if rules == nil {
		return pipeline.NewSegmenter(cfg.Detector)
	}
	return segmentation.NewSegmenter(*rules)
}
