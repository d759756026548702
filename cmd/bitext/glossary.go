package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/glossary"
	"github.com/jonathan/bitext-aligner/internal/pipeline"
	"github.com/spf13/cobra"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Induce a word glossary from a stored alignment",
	Long: `Trains an IBM Model 1 word alignment on the bitext of a snapshot and keeps the word pairs whose
translation probability exceeds --threshold, where both words occur exactly once in the kept set.

A translation table stored in the snapshot is reused unless --retrain is given; --save-model
stores a newly trained table in the snapshot. Without --out the glossary is printed as TSV.`,
	RunE: runGlossary,
}

var (
	glossarySnapshot      string
	glossaryStore         string
	glossaryStoreLocation string
	glossaryDatabaseURL   string
	glossaryID            string
	glossaryOut           string
	glossarySourceLang    string
	glossaryTargetLang    string
	glossaryThreshold     float64
	glossaryIterations    int
	glossaryRetrain       bool
	glossarySaveModel     bool
	glossaryVerbose       bool
	glossaryLogMode       string
)

func init() {
	glossaryCmd.Flags().StringVarP(&glossarySnapshot, "snapshot", "x", "", "Snapshot file")
	glossaryCmd.Flags().StringVar(&glossaryStore, "store", config.DefaultStore, "Snapshot store: file, sqlite or postgres")
	glossaryCmd.Flags().StringVar(&glossaryStoreLocation, "store-location", "", "Directory (file store) or database file (sqlite store)")
	glossaryCmd.Flags().StringVar(&glossaryDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	glossaryCmd.Flags().StringVar(&glossaryID, "id", "", "Snapshot ID in the store")
	glossaryCmd.Flags().StringVarP(&glossaryOut, "out", "o", "", "Glossary TSV file (default stdout)")
	glossaryCmd.Flags().StringVar(&glossarySourceLang, "source-lang", config.DefaultLanguage, "Stemming language of the source text")
	glossaryCmd.Flags().StringVar(&glossaryTargetLang, "target-lang", config.DefaultLanguage, "Stemming language of the target text")
	glossaryCmd.Flags().Float64Var(&glossaryThreshold, "threshold", config.DefaultThreshold, "Minimum translation probability, exclusive")
	glossaryCmd.Flags().IntVar(&glossaryIterations, "iterations", config.DefaultIterations, "Training iterations")
	glossaryCmd.Flags().BoolVar(&glossaryRetrain, "retrain", false, "Ignore a translation table stored in the snapshot")
	glossaryCmd.Flags().BoolVar(&glossarySaveModel, "save-model", false, "Store a newly trained translation table in the snapshot")
	glossaryCmd.Flags().BoolVarP(&glossaryVerbose, "verbose", "v", false, "Print the glossary summary")
	glossaryCmd.Flags().StringVar(&glossaryLogMode, "log-mode", "", "Log mode: development, production or debug")

	rootCmd.AddCommand(glossaryCmd)
}

func runGlossary(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if glossaryThreshold < 0 || glossaryThreshold >= 1 {
		return fmt.Errorf("--threshold must be in [0, 1), got %v", glossaryThreshold)
	}

	source, closeStore, err := snapshotSource(ctx, glossarySnapshot, glossaryID, config.Config{
		Store:         glossaryStore,
		StoreLocation: glossaryStoreLocation,
		DatabaseURL:   glossaryDatabaseURL,
	})
	if err != nil {
		return err
	}
	defer closeStore()

	log, err := newLogger(glossaryLogMode, glossaryVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Step lines go to stderr when the glossary itself is printed to stdout
	var progress io.Writer = cmd.OutOrStdout()
	if glossaryOut == "" {
		progress = cmd.ErrOrStderr()
	}

	res, err := pipeline.InduceGlossary(ctx, pipeline.GlossaryRunOptions{
		Snapshot:   source,
		OutputPath: glossaryOut,
		Glossary: pipeline.GlossaryOptions{
			SourceLang: glossarySourceLang,
			TargetLang: glossaryTargetLang,
			Threshold:  glossaryThreshold,
			Iterations: glossaryIterations,
		},
		Retrain:   glossaryRetrain,
		SaveModel: glossarySaveModel,
		Verbose:   glossaryVerbose,
		Logger:    log,
		Out:       progress,
	})
	if err != nil {
		return err
	}

	if glossaryOut == "" {
		return glossary.WriteTSV(cmd.OutOrStdout(), res.Entries)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d glossary entries to %s\n", len(res.Entries), glossaryOut)
	return nil
}
