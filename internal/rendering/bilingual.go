package rendering

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// DefaultMinParagraph is the buffered length, in characters, that flushes a paragraph pair
const DefaultMinParagraph = 10

// RenderTable writes one two-cell row per bitext entry. Headings are ordinary rows.
func RenderTable(doc Document, bitext *types.Bitext) {
	for _, p := range bitext.Pairs {
		doc.AddTableRow(p.Source.Text, p.Target.Text)
	}
}

// RenderFlowing accumulates body entries into a source and a target paragraph and
// writes them as a pair once either exceeds minParagraph characters. A heading
// flushes what is pending and is written as a heading of its role's level.
// Whatever remains at the end is flushed.
func RenderFlowing(doc Document, bitext *types.Bitext, minParagraph int) {
	var source, target paragraphBuffer

	flush := func() {
		if source.empty() && target.empty() {
			return
		}
		doc.AddParagraph(source.String(), StyleQuote)
		doc.AddParagraph(target.String(), StyleNormal)
		source.reset()
		target.reset()
	}

	for _, p := range bitext.Pairs {
		switch p.Source.Role {
		case types.RolePartHeading, types.RoleChapterHeading:
			flush()
			doc.AddHeading(p.Source.Text, p.Source.Role.HeadingLevel())
			continue
		case types.RoleBody:
		}

		source.add(p.Source.Text)
		target.add(p.Target.Text)
		if source.length() > minParagraph || target.length() > minParagraph {
			flush()
		}
	}
	flush()
}

// RenderInterleaved writes a heading as one line tagged with '#' per level and
// a body entry as the source line followed by the indented target line
func RenderInterleaved(w io.Writer, bitext *types.Bitext) error {
	bw := bufio.NewWriter(w)
	for _, p := range bitext.Pairs {
		var err error
		switch p.Source.Role {
		case types.RolePartHeading, types.RoleChapterHeading:
			_, err = fmt.Fprintf(bw, "%s %s\n", strings.Repeat("#", p.Source.Role.HeadingLevel()), p.Source.Text)
		case types.RoleBody:
			_, err = fmt.Fprintf(bw, "%s\n  %s\n", p.Source.Text, p.Target.Text)
		}
		if err != nil {
			return &RenderError{Format: FormatText, Reason: "write failed", Cause: err}
		}
	}
	if err := bw.Flush(); err != nil {
		return &RenderError{Format: FormatText, Reason: "write failed", Cause: err}
	}
	return nil
}

type paragraphBuffer struct {
	sb strings.Builder
}

func (b *paragraphBuffer) add(text string) {
	if text == "" {
		return
	}
	if b.sb.Len() > 0 {
		b.sb.WriteByte(' ')
	}
	b.sb.WriteString(text)
}

func (b *paragraphBuffer) length() int    { return utf8.RuneCountInString(b.sb.String()) }
func (b *paragraphBuffer) empty() bool    { return b.sb.Len() == 0 }
func (b *paragraphBuffer) reset()         { b.sb.Reset() }
func (b *paragraphBuffer) String() string { return b.sb.String() }
