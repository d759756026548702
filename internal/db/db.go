// Package db provides PostgreSQL database access for snapshot storage.
package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the snapshot table if it does not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alignment_snapshots (
			id          UUID PRIMARY KEY,
			version     INTEGER NOT NULL,
			source_name TEXT NOT NULL DEFAULT '',
			target_name TEXT NOT NULL DEFAULT '',
			entries     INTEGER NOT NULL,
			data        BYTEA NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create snapshot table: %w", err)
	}
	return nil
}

// SaveSnapshot stores an encoded snapshot, replacing any previous one with the same ID
func (db *DB) SaveSnapshot(ctx context.Context, row *SnapshotRow) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO alignment_snapshots (id, version, source_name, target_name, entries, data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET version = $2, source_name = $3, target_name = $4, entries = $5, data = $6`,
		row.ID, row.Version, row.SourceName, row.TargetName, row.Entries, row.Data, row.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", row.ID, err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by ID. Returns nil when it does not exist.
func (db *DB) GetSnapshot(ctx context.Context, id uuid.UUID) (*SnapshotRow, error) {
	var row SnapshotRow
	err := db.pool.QueryRow(ctx,
		`SELECT id, version, source_name, target_name, entries, data, created_at
		 FROM alignment_snapshots WHERE id = $1`,
		id,
	).Scan(&row.ID, &row.Version, &row.SourceName, &row.TargetName, &row.Entries, &row.Data, &row.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}
	return &row, nil
}

// DeleteSnapshot removes a snapshot and reports whether a row was deleted
func (db *DB) DeleteSnapshot(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM alignment_snapshots WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
