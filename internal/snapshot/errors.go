// Package snapshot persists an alignment session as a versioned record so later
// runs can render or induce a glossary without aligning again.
package snapshot

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no snapshot has the requested ID
var ErrNotFound = errors.New("snapshot not found")

// DecodeError represents a snapshot that cannot be read back
type DecodeError struct {
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("snapshot decode error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("snapshot decode error: %s", e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// ChecksumError is returned when the stored checksum does not match the payload
type ChecksumError struct {
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("snapshot checksum mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// VersionError is returned for snapshots written in an unsupported format version
type VersionError struct {
	Version   int
	Supported int
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("unsupported snapshot version %d (supported: %d)", e.Version, e.Supported)
}

// StoreError represents a failure of the underlying storage
type StoreError struct {
	Op    string
	ID    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("snapshot store: %s %s: %v", e.Op, e.ID, e.Cause)
	}
	return fmt.Sprintf("snapshot store: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
