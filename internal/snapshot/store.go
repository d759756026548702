package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/bitext-aligner/internal/db"
)

// FileExt is the extension of snapshot files
const FileExt = ".btxs"

// Store persists snapshots by ID. Load and Delete return ErrNotFound for unknown IDs.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Store kinds accepted by Open
const (
	KindFile     = "file"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Open opens a store of the given kind. target is a directory for file stores,
// a database file for SQLite and a connection URL for PostgreSQL.
func Open(ctx context.Context, kind, target string) (Store, error) {
	if target == "" {
		return nil, fmt.Errorf("%s snapshot store needs a location", kind)
	}
	switch strings.ToLower(kind) {
	case KindFile, "":
		return NewFileStore(target)
	case KindSQLite:
		return OpenSQLite(ctx, target)
	case KindPostgres:
		conn, err := db.Connect(ctx, target)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, conn)
	default:
		return nil, fmt.Errorf("unknown snapshot store %q (want file, sqlite or postgres)", kind)
	}
}

// FileStore keeps one snapshot file per ID in a directory
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StoreError{Op: "create directory", Cause: err}
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file a snapshot ID is stored in
func (f *FileStore) Path(id string) string {
	return filepath.Join(f.dir, id+FileExt)
}

// Save writes the snapshot atomically
func (f *FileStore) Save(_ context.Context, s *Snapshot) error {
	if s.ID == "" || strings.ContainsAny(s.ID, `/\`) {
		return &StoreError{Op: "save", ID: s.ID, Cause: errors.New("invalid snapshot id")}
	}
	return SaveFile(f.Path(s.ID), s)
}

// Load reads the snapshot with the given ID
func (f *FileStore) Load(_ context.Context, id string) (*Snapshot, error) {
	s, err := LoadFile(f.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return s, err
}

// Delete removes the snapshot file
func (f *FileStore) Delete(_ context.Context, id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return ErrNotFound
	}
	if err := os.Remove(f.Path(id)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete", ID: id, Cause: err}
	}
	return nil
}

// Close is a no-op
func (f *FileStore) Close() error { return nil }

// SaveFile encodes the snapshot into path. The file is written under a temporary
// name and renamed so readers never see a partial snapshot.
func SaveFile(path string, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &StoreError{Op: "create directory", Cause: err}
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return &StoreError{Op: "create temp file", Cause: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &StoreError{Op: "write", ID: s.ID, Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &StoreError{Op: "sync", ID: s.ID, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &StoreError{Op: "close", ID: s.ID, Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &StoreError{Op: "rename", ID: s.ID, Cause: err}
	}
	return nil
}

// LoadFile decodes the snapshot stored in path
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return Unmarshal(data)
}
