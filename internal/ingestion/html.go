package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const textElements = "h1, h2, h3, h4, h5, h6, p, div"

// ExtractHTMLText reduces an HTML document to plain text that segments like a text file.
// Top-level headings (h1, h2) and horizontal rules start a new block, every other
// heading, paragraph and leaf div becomes its own paragraph. A div holding other
// text elements only contributes through them.
func ExtractHTMLText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, nav, header, footer").Remove()

	var sb strings.Builder
	doc.Find(textElements + ", hr").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		switch tag {
		case "hr":
			writeBlockBreak(&sb)
			return
		case "h1", "h2":
			writeBlockBreak(&sb)
		case "div":
			if s.Find(textElements).Length() > 0 {
				return
			}
		}

		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	})

	return strings.TrimSpace(sb.String()), nil
}

// writeBlockBreak ends the current block unless nothing has been written yet
// or a block break was the last thing written
func writeBlockBreak(sb *strings.Builder) {
	if sb.Len() == 0 {
		return
	}
	if strings.HasSuffix(sb.String(), blockBreak) {
		return
	}
	current := strings.TrimRight(sb.String(), "\n")
	sb.Reset()
	sb.WriteString(current)
	sb.WriteString(blockBreak)
}
