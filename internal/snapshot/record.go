package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/bitext-aligner/internal/alignment"
	"github.com/jonathan/bitext-aligner/internal/types"
)

// FormatVersion is the record version written by this package
const FormatVersion = 1

// SentenceRecord is the persisted form of a sentence
type SentenceRecord struct {
	Text string `json:"text"`
	Role string `json:"role"`
}

// TextRecord is the persisted form of a segmented text
type TextRecord struct {
	Name   string             `json:"name,omitempty"`
	Blocks [][]SentenceRecord `json:"blocks"`
}

// CorrespondenceRecord holds the raw aligner output of one block as (source, target) index pairs
type CorrespondenceRecord struct {
	Block int      `json:"block"`
	Pairs [][2]int `json:"pairs"`
}

// EntryRecord is one persisted bitext entry
type EntryRecord struct {
	Source SentenceRecord `json:"source"`
	Target SentenceRecord `json:"target"`
}

// Snapshot is the complete persisted state of an alignment session
type Snapshot struct {
	Version         int                    `json:"version"`
	ID              string                 `json:"id"`
	CreatedAt       time.Time              `json:"created_at"`
	Source          TextRecord             `json:"source"`
	Target          TextRecord             `json:"target"`
	Correspondences []CorrespondenceRecord `json:"correspondences"`
	Bitext          []EntryRecord          `json:"bitext"`
	Model           types.ProbTable        `json:"model,omitempty"`
}

// FromSession captures a session. The bitext must have been built.
// model is the trained word translation table and may be nil.
func FromSession(s *alignment.Session, model types.ProbTable) (*Snapshot, error) {
	if s.Bitext() == nil {
		return nil, fmt.Errorf("session has no bitext to snapshot")
	}

	correspondences := s.Correspondences()
	blocks := make([]int, 0, len(correspondences))
	for n := range correspondences {
		blocks = append(blocks, n)
	}
	sort.Ints(blocks)

	snap := &Snapshot{
		Version:         FormatVersion,
		ID:              uuid.New().String(),
		CreatedAt:       time.Now().UTC(),
		Source:          textRecord(s.Source()),
		Target:          textRecord(s.Target()),
		Correspondences: make([]CorrespondenceRecord, 0, len(blocks)),
		Bitext:          make([]EntryRecord, 0, s.Bitext().Len()),
		Model:           model,
	}
	for _, n := range blocks {
		pairs := make([][2]int, len(correspondences[n]))
		for i, p := range correspondences[n] {
			pairs[i] = [2]int{p.Source, p.Target}
		}
		snap.Correspondences = append(snap.Correspondences, CorrespondenceRecord{Block: n, Pairs: pairs})
	}
	for _, p := range s.Bitext().Pairs {
		snap.Bitext = append(snap.Bitext, EntryRecord{Source: sentenceRecord(p.Source), Target: sentenceRecord(p.Target)})
	}
	return snap, nil
}

// Restore rebuilds a session from the snapshot without running any aligner
func (s *Snapshot) Restore(opts ...alignment.Option) (*alignment.Session, error) {
	source, err := s.Source.text()
	if err != nil {
		return nil, &DecodeError{Message: "invalid source text", Cause: err}
	}
	target, err := s.Target.text()
	if err != nil {
		return nil, &DecodeError{Message: "invalid target text", Cause: err}
	}

	correspondences := make(map[int]types.Correspondence, len(s.Correspondences))
	for _, rec := range s.Correspondences {
		corr := make(types.Correspondence, len(rec.Pairs))
		for i, p := range rec.Pairs {
			corr[i] = types.IndexPair{Source: p[0], Target: p[1]}
		}
		correspondences[rec.Block] = corr
	}

	bitext, err := s.BitextValue()
	if err != nil {
		return nil, err
	}
	return alignment.RestoreSession(source, target, correspondences, bitext, opts...)
}

// BitextValue returns the persisted bitext
func (s *Snapshot) BitextValue() (*types.Bitext, error) {
	bitext := &types.Bitext{Pairs: make([]types.BitextPair, len(s.Bitext))}
	for i, e := range s.Bitext {
		source, err := e.Source.sentence()
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("invalid bitext entry %d", i), Cause: err}
		}
		target, err := e.Target.sentence()
		if err != nil {
			return nil, &DecodeError{Message: fmt.Sprintf("invalid bitext entry %d", i), Cause: err}
		}
		bitext.Pairs[i] = types.BitextPair{Source: source, Target: target}
	}
	return bitext, nil
}

func textRecord(t *types.Text) TextRecord {
	rec := TextRecord{Name: t.Name, Blocks: make([][]SentenceRecord, len(t.Blocks))}
	for i, b := range t.Blocks {
		sentences := make([]SentenceRecord, len(b.Sentences))
		for j, s := range b.Sentences {
			sentences[j] = sentenceRecord(s)
		}
		rec.Blocks[i] = sentences
	}
	return rec
}

func (r TextRecord) text() (*types.Text, error) {
	t := &types.Text{Name: r.Name, Blocks: make([]types.Block, len(r.Blocks))}
	for i, block := range r.Blocks {
		var sentences []types.Sentence
		if len(block) > 0 {
			sentences = make([]types.Sentence, len(block))
		}
		for j, rec := range block {
			s, err := rec.sentence()
			if err != nil {
				return nil, fmt.Errorf("block %d sentence %d: %w", i, j, err)
			}
			sentences[j] = s
		}
		t.Blocks[i] = types.NewBlock(sentences)
	}
	return t, nil
}

func sentenceRecord(s types.Sentence) SentenceRecord {
	return SentenceRecord{Text: s.Text, Role: s.Role.String()}
}

func (r SentenceRecord) sentence() (types.Sentence, error) {
	role, err := types.ParseRole(r.Role)
	if err != nil {
		return types.Sentence{}, err
	}
	return types.Sentence{Text: r.Text, Role: role}, nil
}
