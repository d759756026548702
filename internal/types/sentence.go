// Package types provides type definitions for structured data used throughout the bitext aligner.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// Role tags a sentence with its structural function in the document
type Role int

const (
	// RoleBody is an ordinary sentence of running text
	RoleBody Role = iota
	// RolePartHeading is a "PART ..." heading
	RolePartHeading
	// RoleChapterHeading is a "CHAPTER ..." heading
	RoleChapterHeading
)

// String returns the stable name of the role, used in snapshots and debug output
func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RolePartHeading:
		return "part"
	case RoleChapterHeading:
		return "chapter"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// IsHeading reports whether the role is one of the heading roles
func (r Role) IsHeading() bool {
	switch r {
	case RolePartHeading, RoleChapterHeading:
		return true
	case RoleBody:
		return false
	default:
		return false
	}
}

// HeadingLevel returns the document heading level for heading roles and 0 for body text
func (r Role) HeadingLevel() int {
	switch r {
	case RolePartHeading:
		return 1
	case RoleChapterHeading:
		return 2
	case RoleBody:
		return 0
	default:
		return 0
	}
}

// ParseRole converts a role name produced by Role.String back into a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "body":
		return RoleBody, nil
	case "part":
		return RolePartHeading, nil
	case "chapter":
		return RoleChapterHeading, nil
	default:
		return RoleBody, fmt.Errorf("unknown sentence role %q", s)
	}
}

// Sentence is one segmented sentence of a block.
// Text never contains raw line breaks; it may only grow through merge concatenation.
type Sentence struct {
	Text string `json:"text"`
	Role Role   `json:"role"`
}

// NewBodySentence builds a body sentence from raw candidate text, collapsing line breaks
func NewBodySentence(raw string) Sentence {
	return Sentence{Text: CollapseLineBreaks(raw), Role: RoleBody}
}

// NewHeadingSentence builds a heading sentence from the matched heading token
func NewHeadingSentence(token string, role Role) Sentence {
	return Sentence{Text: CollapseLineBreaks(token), Role: role}
}

// CollapseLineBreaks replaces '\n' with a space and drops '\r'
func CollapseLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// Block is a structurally delimited chunk of a document, the unit of independent alignment.
// Lengths is a projection of the sentence lengths taken at construction.
type Block struct {
	Sentences []Sentence `json:"sentences"`
	Lengths   []int      `json:"lengths"`
}

// NewBlock builds a block and caches each sentence's character length
func NewBlock(sentences []Sentence) Block {
	lengths := make([]int, len(sentences))
	for i, s := range sentences {
		lengths[i] = len([]rune(s.Text))
	}
	return Block{Sentences: sentences, Lengths: lengths}
}

// Text is a whole document split into blocks
type Text struct {
	Name   string  `json:"name,omitempty"`
	Blocks []Block `json:"blocks"`
}

// SentenceCount returns the number of sentences across all blocks
func (t *Text) SentenceCount() int {
	n := 0
	for _, b := range t.Blocks {
		n += len(b.Sentences)
	}
	return n
}
