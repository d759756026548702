package types

// IndexPair is one entry of a correspondence: a source sentence index and a target sentence index
type IndexPair struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Correspondence is the raw aligner output for one block, monotonic in both coordinates
type Correspondence []IndexPair

// BitextPair is one aligned entry of the bitext
type BitextPair struct {
	Source Sentence `json:"source"`
	Target Sentence `json:"target"`
}

// IsHeading reports whether the entry is a structural heading, decided by its source side
func (p BitextPair) IsHeading() bool {
	return p.Source.Role.IsHeading()
}

// Bitext is the ordered sequence of aligned sentence pairs
type Bitext struct {
	Pairs []BitextPair `json:"pairs"`
}

// Len returns the number of aligned entries
func (b *Bitext) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Pairs)
}
