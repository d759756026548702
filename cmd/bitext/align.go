package main

import (
	"context"
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/pipeline"
	"github.com/jonathan/bitext-aligner/internal/rendering"
	"github.com/spf13/cobra"
)

var alignCommand = &cobra.Command{
	Use:   "align",
	Short: "Align a text with its translation and render the bitext",
	Long: `Segments the source and target texts, aligns the sentences of every block pair, merges
the correspondences into a bitext and renders it: segment -> align -> build -> render.

The output format is chosen with --format (table, doc or text); doc and table write LaTeX or
HTML depending on the extension of --out. Use --snapshot or --store-location to keep the
alignment, and --reuse to render an existing snapshot without aligning again.

Configuration can be loaded from a JSON or YAML file using --config. Command-line arguments
override config file values.`,
	RunE: runAlignCmd,
}

var (
	alignConfigPath    string
	alignSource        string
	alignTarget        string
	alignOut           string
	alignFormat        string
	alignMinParagraph  int
	alignTitle         string
	alignTemplate      string
	alignSnapshot      string
	alignReuse         string
	alignStore         string
	alignStoreLocation string
	alignDatabaseURL   string
	alignDetector      string
	alignBlockSep      string
	alignPartPattern   string
	alignChapterPat    string
	alignWorkers       int
	alignGlossary      string
	alignSourceLang    string
	alignTargetLang    string
	alignThreshold     float64
	alignIterations    int
	alignVerbose       bool
	alignLogMode       string
)

func init() {
	// Config file flag (processed first)
	alignCommand.Flags().StringVar(&alignConfigPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	alignCommand.Flags().StringVarP(&alignSource, "from", "f", "", "Source language text")
	alignCommand.Flags().StringVarP(&alignTarget, "to", "t", "", "Target language text")
	alignCommand.Flags().StringVarP(&alignOut, "out", "o", "", "Rendered output file (.tex, .html or any path for --format text)")
	alignCommand.Flags().StringVar(&alignFormat, "format", "", "Output format: table, doc or text (default doc)")
	alignCommand.Flags().IntVar(&alignMinParagraph, "min-paragraph", 0, "Minimum paragraph length in characters for the doc format (default 10)")
	alignCommand.Flags().StringVar(&alignTitle, "title", "", "Document title")
	alignCommand.Flags().StringVar(&alignTemplate, "template", "", "LaTeX template replacing the built-in one")

	alignCommand.Flags().StringVarP(&alignSnapshot, "snapshot", "s", "", "Write the alignment snapshot to this file")
	alignCommand.Flags().StringVarP(&alignReuse, "reuse", "x", "", "Render this snapshot instead of aligning")
	alignCommand.Flags().StringVar(&alignStore, "store", "", "Snapshot store: file, sqlite or postgres (default file)")
	alignCommand.Flags().StringVar(&alignStoreLocation, "store-location", "", "Directory (file store) or database file (sqlite store)")
	alignCommand.Flags().StringVar(&alignDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	alignCommand.Flags().StringVar(&alignDetector, "detector", "", "Sentence detector: punkt or paragraph (default punkt)")
	alignCommand.Flags().StringVar(&alignBlockSep, "block-separator", "", "Regular expression separating blocks (default four or more line breaks)")
	alignCommand.Flags().StringVar(&alignPartPattern, "part-pattern", "", "Regular expression of a part heading, heading text in group 1")
	alignCommand.Flags().StringVar(&alignChapterPat, "chapter-pattern", "", "Regular expression of a chapter heading, heading text in group 1")
	alignCommand.Flags().IntVar(&alignWorkers, "workers", 0, "Blocks aligned concurrently (default number of CPUs)")

	alignCommand.Flags().StringVarP(&alignGlossary, "glossary", "g", "", "Also induce a glossary and write it as TSV to this file")
	alignCommand.Flags().StringVar(&alignSourceLang, "source-lang", "", "Stemming language of the source text (default english)")
	alignCommand.Flags().StringVar(&alignTargetLang, "target-lang", "", "Stemming language of the target text (default english)")
	alignCommand.Flags().Float64Var(&alignThreshold, "threshold", 0, "Minimum translation probability for glossary entries (default 0.9)")
	alignCommand.Flags().IntVar(&alignIterations, "iterations", 0, "Word alignment training iterations (default 5)")

	alignCommand.Flags().BoolVarP(&alignVerbose, "verbose", "v", false, "Print detailed debug information")
	alignCommand.Flags().StringVar(&alignLogMode, "log-mode", "", "Log mode: development, production or debug (defaults to BITEXT_LOG_MODE env var)")

	rootCmd.AddCommand(alignCommand)
}

// resolveAlignConfig merges the config file, explicitly set flags, the environment and defaults
func resolveAlignConfig(cmd *cobra.Command) (config.Config, error) {
	out := cmd.OutOrStdout()

	// Step 1: Load config file if provided
	cfg, err := loadConfigFile(alignConfigPath, alignVerbose, func(format string, args ...any) {
		_, _ = fmt.Fprintf(out, format, args...)
	})
	if err != nil {
		return config.Config{}, err
	}

	// Step 2: Apply CLI overrides, only for flags that were explicitly set
	flags := cmd.Flags()
	if flags.Changed("from") {
		cfg.Source = alignSource
	}
	if flags.Changed("to") {
		cfg.Target = alignTarget
	}
	if flags.Changed("out") {
		cfg.Out = alignOut
	}
	if flags.Changed("format") {
		cfg.Format = alignFormat
	}
	if flags.Changed("min-paragraph") {
		cfg.MinParagraph = alignMinParagraph
	}
	if flags.Changed("title") {
		cfg.Title = alignTitle
	}
	if flags.Changed("template") {
		cfg.Template = alignTemplate
	}
	if flags.Changed("snapshot") {
		cfg.Snapshot = alignSnapshot
	}
	if flags.Changed("store") {
		cfg.Store = alignStore
	}
	if flags.Changed("store-location") {
		cfg.StoreLocation = alignStoreLocation
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = alignDatabaseURL
	}
	if flags.Changed("detector") {
		cfg.Detector = alignDetector
	}
	if flags.Changed("block-separator") {
		cfg.BlockSeparator = alignBlockSep
	}
	if flags.Changed("part-pattern") {
		cfg.PartPattern = alignPartPattern
	}
	if flags.Changed("chapter-pattern") {
		cfg.ChapterPattern = alignChapterPat
	}
	if flags.Changed("workers") {
		cfg.Workers = alignWorkers
	}
	if flags.Changed("glossary") {
		cfg.Glossary = alignGlossary
	}
	if flags.Changed("source-lang") {
		cfg.SourceLang = alignSourceLang
	}
	if flags.Changed("target-lang") {
		cfg.TargetLang = alignTargetLang
	}
	if flags.Changed("threshold") {
		cfg.Threshold = alignThreshold
	}
	if flags.Changed("iterations") {
		cfg.Iterations = alignIterations
	}
	if flags.Changed("verbose") {
		cfg.Verbose = alignVerbose
	}
	if flags.Changed("log-mode") {
		cfg.LogMode = alignLogMode
	}

	// Step 3: Environment, then defaults for unset values
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Config{})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runAlignCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveAlignConfig(cmd)
	if err != nil {
		return err
	}

	// Validate required fields
	if alignReuse == "" && (cfg.Source == "" || cfg.Target == "") {
		return fmt.Errorf("--from and --to must be provided (via flag or config)")
	}
	if alignReuse != "" && cfg.Out == "" {
		return fmt.Errorf("--out is required with --reuse")
	}

	format, err := rendering.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	renderOpts := rendering.Options{
		Format:       format,
		MinParagraph: cfg.MinParagraph,
		Title:        cfg.Title,
		TemplatePath: cfg.Template,
	}

	log, err := newLogger(cfg.LogMode, cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if alignReuse != "" {
		return pipeline.RenderSnapshot(ctx, pipeline.RenderOptions{
			Snapshot:   pipeline.SnapshotSource{Path: alignReuse},
			OutputPath: cfg.Out,
			Render:     renderOpts,
			Verbose:    cfg.Verbose,
			Logger:     log,
			Out:        cmd.OutOrStdout(),
		})
	}

	rules, err := segmentationRules(cfg)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if cfg.Out == "" && cfg.Snapshot == "" && cfg.Glossary == "" && store == nil {
		return fmt.Errorf("nothing to write: provide --out, --snapshot, --glossary or --store-location")
	}

	res, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		SourcePath:   cfg.Source,
		TargetPath:   cfg.Target,
		OutputPath:   cfg.Out,
		Render:       renderOpts,
		SnapshotPath: cfg.Snapshot,
		Store:        store,
		GlossaryPath: cfg.Glossary,
		Glossary: pipeline.GlossaryOptions{
			SourceLang: cfg.SourceLang,
			TargetLang: cfg.TargetLang,
			Threshold:  cfg.Threshold,
			Iterations: cfg.Iterations,
		},
		Detector: cfg.Detector,
		Rules:    rules,
		Workers:  cfg.Workers,
		Verbose:  cfg.Verbose,
		Logger:   log,
		Out:      cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	if res.Snapshot != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Snapshot: %s\n", res.Snapshot.ID)
	}
	return nil
}
