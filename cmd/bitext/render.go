package main

import (
	"context"
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/pipeline"
	"github.com/jonathan/bitext-aligner/internal/rendering"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a stored alignment",
	Long: `Renders the bitext of a snapshot without aligning again. The snapshot is read from a file
(--snapshot) or from a store by ID (--store, --store-location or --db-url, and --id).`,
	RunE: runRender,
}

var (
	renderSnapshot      string
	renderStore         string
	renderStoreLocation string
	renderDatabaseURL   string
	renderID            string
	renderOut           string
	renderFormat        string
	renderMinParagraph  int
	renderTitle         string
	renderTemplate      string
	renderVerbose       bool
	renderLogMode       string
)

func init() {
	renderCmd.Flags().StringVarP(&renderSnapshot, "snapshot", "x", "", "Snapshot file")
	renderCmd.Flags().StringVar(&renderStore, "store", config.DefaultStore, "Snapshot store: file, sqlite or postgres")
	renderCmd.Flags().StringVar(&renderStoreLocation, "store-location", "", "Directory (file store) or database file (sqlite store)")
	renderCmd.Flags().StringVar(&renderDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	renderCmd.Flags().StringVar(&renderID, "id", "", "Snapshot ID in the store")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Rendered output file (required)")
	renderCmd.Flags().StringVar(&renderFormat, "format", config.DefaultFormat, "Output format: table, doc or text")
	renderCmd.Flags().IntVar(&renderMinParagraph, "min-paragraph", config.DefaultMinParagraph, "Minimum paragraph length in characters for the doc format")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "Document title")
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "LaTeX template replacing the built-in one")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print the bitext before rendering")
	renderCmd.Flags().StringVar(&renderLogMode, "log-mode", "", "Log mode: development, production or debug")

	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	source, closeStore, err := snapshotSource(ctx, renderSnapshot, renderID, config.Config{
		Store:         renderStore,
		StoreLocation: renderStoreLocation,
		DatabaseURL:   renderDatabaseURL,
	})
	if err != nil {
		return err
	}
	defer closeStore()

	format, err := rendering.ParseFormat(renderFormat)
	if err != nil {
		return err
	}

	log, err := newLogger(renderLogMode, renderVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := pipeline.RenderSnapshot(ctx, pipeline.RenderOptions{
		Snapshot:   source,
		OutputPath: renderOut,
		Render: rendering.Options{
			Format:       format,
			MinParagraph: renderMinParagraph,
			Title:        renderTitle,
			TemplatePath: renderTemplate,
		},
		Verbose: renderVerbose,
		Logger:  log,
		Out:     cmd.OutOrStdout(),
	}); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered %s\n", renderOut)
	return nil
}
