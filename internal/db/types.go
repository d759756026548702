package db

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotRow is one stored alignment snapshot. Data is the encoded snapshot;
// the other columns are denormalized for listing.
type SnapshotRow struct {
	ID         uuid.UUID `json:"id"`
	Version    int       `json:"version"`
	SourceName string    `json:"source_name"`
	TargetName string    `json:"target_name"`
	Entries    int       `json:"entries"`
	Data       []byte    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
