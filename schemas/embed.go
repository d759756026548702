// Package schemas holds the JSON Schemas of persisted artifacts.
package schemas

import "embed"

// FS contains every *.schema.json file of this directory
//
//go:embed *.schema.json
var FS embed.FS

// SnapshotFile is the schema file name of the alignment snapshot record
const SnapshotFile = "snapshot.schema.json"

// Snapshot returns the snapshot schema document
func Snapshot() string {
	data, err := FS.ReadFile(SnapshotFile)
	if err != nil {
		panic("schemas: embedded snapshot schema missing: " + err.Error())
	}
	return string(data)
}
