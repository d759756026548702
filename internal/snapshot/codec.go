package snapshot

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/jonathan/bitext-aligner/internal/schemas"
	schemafiles "github.com/jonathan/bitext-aligner/schemas"
	"github.com/ulikunitz/xz"
	"golang.org/x/crypto/blake2b"
)

// Encoded layout: magic, format version byte, blake2b-256 of the payload, xz-compressed JSON payload.
const (
	magic      = "BTXS"
	headerSize = len(magic) + 1 + blake2b.Size256
)

var recordSchema = sync.OnceValues(func() (*schemas.Schema, error) {
	return schemas.Compile(schemafiles.SnapshotFile, schemafiles.Snapshot())
})

func validateRecord(record []byte) error {
	schema, err := recordSchema()
	if err != nil {
		return err
	}
	return schema.Validate(record)
}

// Marshal encodes the snapshot. The JSON record is validated against the snapshot schema first.
func Marshal(s *Snapshot) ([]byte, error) {
	if s.Version == 0 {
		s.Version = FormatVersion
	}
	if s.Version != FormatVersion {
		return nil, &VersionError{Version: s.Version, Supported: FormatVersion}
	}

	record, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := validateRecord(record); err != nil {
		return nil, fmt.Errorf("snapshot does not match schema: %w", err)
	}

	var payload bytes.Buffer
	zw, err := xz.NewWriter(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := zw.Write(record); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress snapshot: %w", err)
	}

	sum := blake2b.Sum256(payload.Bytes())
	out := make([]byte, 0, headerSize+payload.Len())
	out = append(out, magic...)
	out = append(out, byte(s.Version))
	out = append(out, sum[:]...)
	out = append(out, payload.Bytes()...)
	return out, nil
}

// Unmarshal decodes and validates an encoded snapshot
func Unmarshal(data []byte) (*Snapshot, error) {
	record, err := DecodeRecord(data)
	if err != nil {
		return nil, err
	}

	var s Snapshot
	if err := json.Unmarshal(record, &s); err != nil {
		return nil, &DecodeError{Message: "invalid snapshot record", Cause: err}
	}
	if s.Version != FormatVersion {
		return nil, &VersionError{Version: s.Version, Supported: FormatVersion}
	}
	return &s, nil
}

// DecodeRecord verifies the envelope of an encoded snapshot and returns its
// schema-validated JSON record
func DecodeRecord(data []byte) ([]byte, error) {
	if len(data) < headerSize || string(data[:len(magic)]) != magic {
		return nil, &DecodeError{Message: "not a snapshot file"}
	}
	if version := int(data[len(magic)]); version != FormatVersion {
		return nil, &VersionError{Version: version, Supported: FormatVersion}
	}

	expected := data[len(magic)+1 : headerSize]
	payload := data[headerSize:]
	actual := blake2b.Sum256(payload)
	if !bytes.Equal(expected, actual[:]) {
		return nil, &ChecksumError{Expected: hex.EncodeToString(expected), Actual: hex.EncodeToString(actual[:])}
	}

	zr, err := xz.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &DecodeError{Message: "invalid compressed payload", Cause: err}
	}
	record, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecodeError{Message: "invalid compressed payload", Cause: err}
	}

	if err := validateRecord(record); err != nil {
		return nil, &DecodeError{Message: "snapshot does not match schema", Cause: err}
	}
	return record, nil
}

// Write encodes the snapshot to w
func Write(w io.Writer, s *Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r
func Read(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Unmarshal(data)
}
