package glossary

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/jonathan/bitext-aligner/internal/types"
)

// WriteTSV writes one "source<TAB>target<TAB>probability" line per entry
func WriteTSV(w io.Writer, entries []types.WordTranslation) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%s\t%s\t%s\n", e.SourceWord, e.TargetWord,
			strconv.FormatFloat(e.Probability, 'f', 4, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
