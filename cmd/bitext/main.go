// Package main implements the bitext CLI: align a text with its translation and
// render the result as a bilingual document.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/bitext-aligner/internal/alignment"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bitext",
	Short: "Sentence-align a book with its translation",
	Long: `bitext splits a source text and its translation into blocks and sentences, aligns the
sentences of every block pair, and renders the aligned result as a bilingual document.

Alignments are saved as snapshots so that rendering and glossary induction can be repeated
without aligning again.`,
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 when the texts cannot be aligned at all and 1 for any other failure
func exitCode(err error) int {
	if alignment.IsFatal(err) {
		return 2
	}
	return 1
}
