package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/storage"
)

const archiveDir = "backups"

// Archiver writes the export document to file storage and keeps the most
// recent copies. One file is written per calendar day; a later run on the same
// day overwrites it.
type Archiver struct {
	backupService backup.BackupService
	store         storage.FileStorage
	keep          int
	now           func() time.Time
}

func NewArchiver(backupService backup.BackupService, store storage.FileStorage, keep int, now func() time.Time) *Archiver {
	if now == nil {
		now = time.Now
	}
	return &Archiver{
		backupService: backupService,
		store:         store,
		keep:          keep,
		now:           now,
	}
}

// Archive stores a fresh backup and returns its key
func (a *Archiver) Archive(ctx context.Context) (string, error) {
	doc, err := a.backupService.Export(ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}

	name := fmt.Sprintf("shiftsavvy-backup-%s.json", a.now().UTC().Format("2006-01-02"))
	key, err := a.store.Upload(ctx, &buf, path.Join(archiveDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to store backup: %w", err)
	}

	if err := a.prune(ctx); err != nil {
		return key, err
	}

	slog.Info("Backup archived", "key", key, "shifts", len(doc.Shifts), "days", len(doc.AttendanceLogs))
	return key, nil
}

// prune drops the oldest archives beyond keep. Keys sort by date.
func (a *Archiver) prune(ctx context.Context) error {
	if a.keep <= 0 {
		return nil
	}

	keys, err := a.store.List(ctx, archiveDir)
	if err != nil {
		return fmt.Errorf("failed to list archived backups: %w", err)
	}
	if len(keys) <= a.keep {
		return nil
	}

	for _, key := range keys[:len(keys)-a.keep] {
		if err := a.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete archived backup %s: %w", key, err)
		}
		slog.Debug("Archived backup pruned", "key", key)
	}
	return nil
}
