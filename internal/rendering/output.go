package rendering

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// Format is an output shape
type Format string

// Output formats
const (
	FormatTable Format = "table"
	FormatDoc   Format = "doc"
	FormatText  Format = "text"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable, nil
	case FormatDoc, "":
		return FormatDoc, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, doc or text)", s)
	}
}

// Options configures Render
type Options struct {
	Format       Format
	MinParagraph int
	Title        string
	// TemplatePath overrides the built-in LaTeX template
	TemplatePath string
}

// NewDocumentForPath picks the document back-end from the output file extension
func NewDocumentForPath(path string, opts Options) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewHTMLDocument(opts.Title)
	case ".tex":
		if opts.TemplatePath != "" {
			return NewLaTeXDocumentFromTemplate(opts.TemplatePath, opts.Title)
		}
		return NewLaTeXDocument(opts.Title)
	default:
		return nil, &RenderError{Format: opts.Format, Path: path, Reason: "no document writer for this extension (use .tex or .html)"}
	}
}

// Render writes the bitext to w in the requested format. path only selects the
// document back-end for the table and doc formats.
func Render(w io.Writer, path string, bitext *types.Bitext, opts Options) error {
	if bitext == nil {
		return &RenderError{Format: opts.Format, Path: path, Reason: "no bitext"}
	}
	if opts.Format == FormatText {
		return RenderInterleaved(w, bitext)
	}

	doc, err := NewDocumentForPath(path, opts)
	if err != nil {
		return err
	}
	switch opts.Format {
	case FormatTable:
		RenderTable(doc, bitext)
	case FormatDoc, "":
		minParagraph := opts.MinParagraph
		if minParagraph <= 0 {
			minParagraph = DefaultMinParagraph
		}
		RenderFlowing(doc, bitext, minParagraph)
	default:
		return &RenderError{Format: opts.Format, Path: path, Reason: "unknown output format"}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return &RenderError{Format: opts.Format, Path: path, Reason: "write failed", Cause: err}
	}
	return nil
}

// WriteFile renders the bitext into path, creating parent directories
func WriteFile(path string, bitext *types.Bitext, opts Options) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &RenderError{Format: opts.Format, Path: path, Reason: "cannot create output directory", Cause: err}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return &RenderError{Format: opts.Format, Path: path, Reason: "cannot create output file", Cause: err}
	}
	if err := Render(f, path, bitext, opts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return &RenderError{Format: opts.Format, Path: path, Reason: "cannot close output file", Cause: err}
	}
	return nil
}
