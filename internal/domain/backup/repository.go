package backup

import "context"

type BackupRepository interface {
	// Snapshot reads shifts, the active selection, every event and every status
	Snapshot(ctx context.Context) (Snapshot, error)

	// Replace atomically swaps all stored data for snapshot
	Replace(ctx context.Context, snapshot Snapshot) error
}
