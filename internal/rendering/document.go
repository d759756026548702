package rendering

import "io"

// ParagraphStyle selects how a paragraph is set
type ParagraphStyle string

// Paragraph styles. Source language paragraphs are set as quotes in flowing documents.
const (
	StyleNormal ParagraphStyle = "normal"
	StyleQuote  ParagraphStyle = "quote"
)

// ElementKind identifies a document element
type ElementKind string

// Element kinds
const (
	KindHeading   ElementKind = "heading"
	KindParagraph ElementKind = "paragraph"
	KindTable     ElementKind = "table"
)

// Row is one two-cell table row
type Row struct {
	Left  string
	Right string
}

// Element is one heading, paragraph or table of a document body
type Element struct {
	Kind  ElementKind
	Text  string
	Level int
	Style ParagraphStyle
	Rows  []Row
}

// Document is the writer the bitext renderers draw on
type Document interface {
	AddHeading(text string, level int)
	AddParagraph(text string, style ParagraphStyle)
	AddTableRow(left, right string)
	io.WriterTo
}

// Body collects document elements in order. Consecutive table rows share one table.
type Body struct {
	elements []Element
}

// AddHeading appends a heading
func (b *Body) AddHeading(text string, level int) {
	b.elements = append(b.elements, Element{Kind: KindHeading, Text: text, Level: level})
}

// AddParagraph appends a paragraph
func (b *Body) AddParagraph(text string, style ParagraphStyle) {
	b.elements = append(b.elements, Element{Kind: KindParagraph, Text: text, Style: style})
}

// AddTableRow appends a row to the current table, starting one if needed
func (b *Body) AddTableRow(left, right string) {
	if n := len(b.elements); n > 0 && b.elements[n-1].Kind == KindTable {
		b.elements[n-1].Rows = append(b.elements[n-1].Rows, Row{Left: left, Right: right})
		return
	}
	b.elements = append(b.elements, Element{Kind: KindTable, Rows: []Row{{Left: left, Right: right}}})
}

// Elements returns the collected elements
func (b *Body) Elements() []Element {
	return b.elements
}

// templateData is what document templates are executed with
type templateData struct {
	Title    string
	Elements []Element
}
