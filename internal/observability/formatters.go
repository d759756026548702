// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/bitext-aligner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// PrintSegmentation outputs block and sentence counts of a segmented text.
func (p *Printer) PrintSegmentation(label string, text *types.Text) {
	if text == nil {
		return
	}

	var sb strings.Builder
	if text.Name != "" {
		sb.WriteString(fmt.Sprintf("File:       %s\n", text.Name))
	}
	sb.WriteString(fmt.Sprintf("Blocks:     %d\n", len(text.Blocks)))
	sb.WriteString(fmt.Sprintf("Sentences:  %d\n", text.SentenceCount()))

	var parts, chapters, empty int
	for _, b := range text.Blocks {
		if len(b.Sentences) == 0 {
			empty++
		}
		for _, s := range b.Sentences {
			switch s.Role {
			case types.RolePartHeading:
				parts++
			case types.RoleChapterHeading:
				chapters++
			case types.RoleBody:
			}
		}
	}
	sb.WriteString(fmt.Sprintf("Headings:   %d part, %d chapter", parts, chapters))
	if empty > 0 {
		sb.WriteString(fmt.Sprintf("\nEmpty blocks: %d", empty))
	}

	p.printBox(strings.ToUpper(label)+" SEGMENTATION", sb.String())
}

// PrintBitext outputs the size of the bitext and its first entries.
func (p *Printer) PrintBitext(bitext *types.Bitext) {
	if bitext == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Entries: %d\n", bitext.Len()))

	count := min(bitext.Len(), maxItemsToShow)
	for i := 0; i < count; i++ {
		pair := bitext.Pairs[i]
		sb.WriteString("\n")
		if pair.IsHeading() {
			sb.WriteString(fmt.Sprintf("#%d  [%s] %s\n", i+1, pair.Source.Role, pair.Source.Text))
			continue
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, pair.Source.Text))
		sb.WriteString(fmt.Sprintf("    %s\n", pair.Target.Text))
	}
	if bitext.Len() > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", bitext.Len()-maxItemsToShow))
	}

	p.printBox("BITEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGlossary outputs the number of glossary entries and the first few of them.
func (p *Printer) PrintGlossary(entries []types.WordTranslation) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Entries: %d", len(entries)))

	count := min(len(entries), maxItemsToShow)
	if count > 0 {
		sb.WriteString("\n")
	}
	for i := 0; i < count; i++ {
		e := entries[i]
		sb.WriteString(fmt.Sprintf("\n  • %s → %s (%.2f)", e.SourceWord, e.TargetWord, e.Probability))
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(entries)-maxItemsToShow))
	}

	p.printBox("GLOSSARY", sb.String())
}
