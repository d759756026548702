package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/bitext-aligner/internal/schemas"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
	schemafiles "github.com/jonathan/bitext-aligner/schemas"
	"github.com/spf13/cobra"
)

var validateSnapshotCmd = &cobra.Command{
	Use:   "validate-snapshot",
	Short: "Validate a snapshot file",
	Long: `Checks the envelope, checksum and record of a snapshot file. A .json file is taken to be a
decoded snapshot record and is validated against the snapshot schema only.`,
	RunE: runValidateSnapshot,
}

var (
	validateSnapshotInput  string
	validateSnapshotSchema string
	validateSnapshotDump   string
)

func init() {
	validateSnapshotCmd.Flags().StringVarP(&validateSnapshotInput, "in", "i", "", "Path to the snapshot (required)")
	validateSnapshotCmd.Flags().StringVar(&validateSnapshotSchema, "schema", "", "Schema file replacing the built-in snapshot schema (.json input only)")
	validateSnapshotCmd.Flags().StringVar(&validateSnapshotDump, "dump", "", "Write the decoded JSON record to this file")

	if err := validateSnapshotCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateSnapshotCmd)
}

func runValidateSnapshot(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if strings.EqualFold(filepath.Ext(validateSnapshotInput), ".json") {
		if err := validateRecordFile(validateSnapshotInput, validateSnapshotSchema); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "✓ %s matches the snapshot schema\n", validateSnapshotInput)
		return nil
	}

	data, err := os.ReadFile(validateSnapshotInput)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	record, err := snapshot.DecodeRecord(data)
	if err != nil {
		var checksumErr *snapshot.ChecksumError
		var versionErr *snapshot.VersionError
		if errors.As(err, &checksumErr) || errors.As(err, &versionErr) {
			return fmt.Errorf("invalid snapshot envelope: %w", err)
		}
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	if _, err := snap.Restore(); err != nil {
		return fmt.Errorf("snapshot cannot be restored: %w", err)
	}

	if validateSnapshotDump != "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, record, "", "  "); err != nil {
			return fmt.Errorf("failed to format record: %w", err)
		}
		if err := os.WriteFile(validateSnapshotDump, pretty.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}
	}

	_, _ = fmt.Fprintf(out, "✓ %s is a valid snapshot\n", validateSnapshotInput)
	_, _ = fmt.Fprintf(out, "  ID:              %s\n", snap.ID)
	_, _ = fmt.Fprintf(out, "  Created:         %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	_, _ = fmt.Fprintf(out, "  Source:          %s\n", snap.Source.Name)
	_, _ = fmt.Fprintf(out, "  Target:          %s\n", snap.Target.Name)
	_, _ = fmt.Fprintf(out, "  Blocks:          %d\n", len(snap.Correspondences))
	_, _ = fmt.Fprintf(out, "  Bitext entries:  %d\n", len(snap.Bitext))
	_, _ = fmt.Fprintf(out, "  Stored model:    %t\n", len(snap.Model) > 0)
	return nil
}

// validateRecordFile checks a decoded JSON record against schemaPath, or the embedded schema
func validateRecordFile(path, schemaPath string) error {
	if schemaPath != "" {
		return schemas.ValidateJSON(schemaPath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read record: %w", err)
	}
	return schemas.ValidateBytes(schemafiles.Snapshot(), data)
}
