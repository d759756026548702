package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/ingestion"
	"github.com/jonathan/bitext-aligner/internal/observability"
	"github.com/jonathan/bitext-aligner/internal/types"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment FILE...",
	Short: "Segment texts and dump the result for debugging",
	Long: `Splits each file into blocks and sentences the way align does and prints a summary.

With --out, three files are written per input into that directory:
  <name>.segments.txt  every block and its sentences with their roles
  <name>.trace.txt     every candidate sentence and what it was classified as
  <name>.meta.json     ingestion metadata (format, timestamp and hash of the normalized text)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSegment,
}

var (
	segmentDetector       string
	segmentOut            string
	segmentBlockSeparator string
	segmentPartPattern    string
	segmentChapterPattern string
)

func init() {
	segmentCmd.Flags().StringVar(&segmentDetector, "detector", "", "Sentence detector: punkt or paragraph (default punkt)")
	segmentCmd.Flags().StringVar(&segmentBlockSeparator, "block-separator", "", "Regular expression separating blocks (default four or more line breaks)")
	segmentCmd.Flags().StringVar(&segmentPartPattern, "part-pattern", "", "Regular expression of a part heading, heading text in group 1")
	segmentCmd.Flags().StringVar(&segmentChapterPattern, "chapter-pattern", "", "Regular expression of a chapter heading, heading text in group 1")
	segmentCmd.Flags().StringVarP(&segmentOut, "out", "o", "", "Directory for the debug dumps")

	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	segmenter, err := newSegmenter(config.Config{
		Detector:       segmentDetector,
		BlockSeparator: segmentBlockSeparator,
		PartPattern:    segmentPartPattern,
		ChapterPattern: segmentChapterPattern,
	})
	if err != nil {
		return err
	}
	printer := observability.NewPrinter(cmd.OutOrStdout())

	if segmentOut != "" {
		if err := os.MkdirAll(segmentOut, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, path := range args {
		raw, meta, err := ingestion.ReadFile(path)
		if err != nil {
			return err
		}

		var trace strings.Builder
		text := segmenter.WithTrace(func(candidate string, s types.Sentence) {
			fmt.Fprintf(&trace, "%q\t%s\t%q\n", candidate, s.Role, s.Text)
		}).SegmentString(raw)
		text.Name = path

		printer.PrintSegmentation(filepath.Base(path), text)

		if segmentOut == "" {
			continue
		}
		base := filepath.Join(segmentOut, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err := os.WriteFile(base+".segments.txt", []byte(dumpSegments(text)), 0644); err != nil {
			return fmt.Errorf("failed to write segments: %w", err)
		}
		if err := os.WriteFile(base+".trace.txt", []byte(trace.String()), 0644); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
		metaJSON, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if err := os.WriteFile(base+".meta.json", metaJSON, 0644); err != nil {
			return fmt.Errorf("failed to write metadata: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.{segments,trace}.txt and %s.meta.json\n", base, base)
	}
	return nil
}

// dumpSegments lists the blocks of a text, one "[role] text" line per sentence
func dumpSegments(text *types.Text) string {
	var sb strings.Builder
	for i, block := range text.Blocks {
		fmt.Fprintf(&sb, "== block %d (%d sentences) ==\n", i, len(block.Sentences))
		for _, s := range block.Sentences {
			fmt.Fprintf(&sb, "[%s] %s\n", s.Role, s.Text)
		}
	}
	return sb.String()
}
