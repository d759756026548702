package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Input formats recognised by ReadFile
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Metadata describes an ingested input document
type Metadata struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339 format
	Hash      string `json:"hash"`      // SHA256 hex digest of the normalized text
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(path, format, content string) *Metadata {
	return &Metadata{
		Path:      path,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ComputeHash(content),
	}
}

// ComputeHash computes SHA256 hash of content and returns hex string
func ComputeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
