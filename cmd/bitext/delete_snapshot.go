package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/bitext-aligner/internal/config"
	"github.com/jonathan/bitext-aligner/internal/snapshot"
	"github.com/spf13/cobra"
)

var deleteSnapshotCmd = &cobra.Command{
	Use:   "delete-snapshot",
	Short: "Remove a snapshot from a store",
	Long: `Deletes the snapshot with the given ID from a file, SQLite or PostgreSQL store.
Deleting an ID the store does not hold is an error.`,
	RunE: runDeleteSnapshot,
}

var (
	deleteStore         string
	deleteStoreLocation string
	deleteDatabaseURL   string
	deleteID            string
)

func init() {
	deleteSnapshotCmd.Flags().StringVar(&deleteStore, "store", config.DefaultStore, "Snapshot store: file, sqlite or postgres")
	deleteSnapshotCmd.Flags().StringVar(&deleteStoreLocation, "store-location", "", "Directory (file store) or database file (sqlite store)")
	deleteSnapshotCmd.Flags().StringVar(&deleteDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	deleteSnapshotCmd.Flags().StringVar(&deleteID, "id", "", "Snapshot ID (required)")

	if err := deleteSnapshotCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}

	rootCmd.AddCommand(deleteSnapshotCmd)
}

func runDeleteSnapshot(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.Config{
		Store:         deleteStore,
		StoreLocation: deleteStoreLocation,
		DatabaseURL:   deleteDatabaseURL,
	}
	cfg.ApplyEnv()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("delete-snapshot needs a store: set --store-location, or --db-url for postgres")
	}
	defer func() { _ = store.Close() }()

	if err := store.Delete(ctx, deleteID); err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return fmt.Errorf("no snapshot %s in the %s store", deleteID, cfg.Store)
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %s\n", deleteID)
	return nil
}
