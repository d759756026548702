package ingestion

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// blockBreak is the separator written between structural blocks of extracted HTML
const blockBreak = "\n\n\n\n"

// Normalize prepares raw document text for segmentation.
// It strips a UTF-8 BOM, converts CRLF and lone CR line endings to LF and
// composes the text into NFC so that sentence lengths are comparable.
// Blank lines are preserved: runs of them delimit blocks.
func Normalize(content string) string {
	if content == "" {
		return ""
	}

	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	return norm.NFC.String(content)
}

// ReadFile reads one language's document and returns its normalized text with metadata.
// Files ending in .html or .htm are reduced to text first.
func ReadFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, &ReadError{Path: path, Message: "file not found", Cause: err}
		}
		return "", nil, &ReadError{Path: path, Message: "failed to read file", Cause: err}
	}

	format := FormatText
	raw := string(content)
	if isHTML(path) {
		format = FormatHTML
		raw, err = ExtractHTMLText(raw)
		if err != nil {
			return "", nil, &ReadError{Path: path, Message: "failed to extract HTML text", Cause: err}
		}
	}

	text := Normalize(raw)
	return text, NewMetadata(path, format, text), nil
}

func isHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	default:
		return false
	}
}
