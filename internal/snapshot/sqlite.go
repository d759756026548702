package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"time"

	// registers the pure Go "sqlite" driver
	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	id          TEXT PRIMARY KEY,
	version     INTEGER NOT NULL,
	source_name TEXT NOT NULL DEFAULT '',
	target_name TEXT NOT NULL DEFAULT '',
	entries     INTEGER NOT NULL,
	data        BLOB NOT NULL,
	created_at  TEXT NOT NULL
)`

// SQLiteStore keeps encoded snapshots in a SQLite database file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StoreError{Op: "open sqlite", Cause: err}
	}
	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, &StoreError{Op: "create sqlite schema", Cause: err}
	}
	return &SQLiteStore{db: conn}, nil
}

// Save inserts or replaces the snapshot
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, version, source_name, target_name, entries, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET version = excluded.version, source_name = excluded.source_name,
		   target_name = excluded.target_name, entries = excluded.entries, data = excluded.data`,
		snap.ID, snap.Version, snap.Source.Name, snap.Target.Name, len(snap.Bitext), data,
		snap.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return &StoreError{Op: "save", ID: snap.ID, Cause: err}
	}
	return nil
}

// Load reads the snapshot with the given ID
func (s *SQLiteStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "load", ID: id, Cause: err}
	}
	return Unmarshal(data)
}

// Delete removes the snapshot row
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return &StoreError{Op: "delete", ID: id, Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: "delete", ID: id, Cause: err}
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
