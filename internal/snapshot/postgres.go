package snapshot

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/bitext-aligner/internal/db"
)

// PostgresStore keeps encoded snapshots in PostgreSQL
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore ensures the snapshot table exists. The store owns conn and closes it.
func NewPostgresStore(ctx context.Context, conn *db.DB) (*PostgresStore, error) {
	if err := conn.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, &StoreError{Op: "create postgres schema", Cause: err}
	}
	return &PostgresStore{db: conn}, nil
}

// Save inserts or replaces the snapshot
func (p *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	id, err := uuid.Parse(snap.ID)
	if err != nil {
		return &StoreError{Op: "save", ID: snap.ID, Cause: fmt.Errorf("snapshot id is not a UUID: %w", err)}
	}
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	row := &db.SnapshotRow{
		ID:         id,
		Version:    snap.Version,
		SourceName: snap.Source.Name,
		TargetName: snap.Target.Name,
		Entries:    len(snap.Bitext),
		Data:       data,
		CreatedAt:  snap.CreatedAt,
	}
	if err := p.db.SaveSnapshot(ctx, row); err != nil {
		return &StoreError{Op: "save", ID: snap.ID, Cause: err}
	}
	return nil
}

// Load reads the snapshot with the given ID
func (p *PostgresStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row, err := p.db.GetSnapshot(ctx, uid)
	if err != nil {
		return nil, &StoreError{Op: "load", ID: id, Cause: err}
	}
	if row == nil {
		return nil, ErrNotFound
	}
	return Unmarshal(row.Data)
}

// Delete removes the snapshot row
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	deleted, err := p.db.DeleteSnapshot(ctx, uid)
	if err != nil {
		return &StoreError{Op: "delete", ID: id, Cause: err}
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Close closes the connection pool
func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
