package cron

import (
	"context"
	"fmt"
	"time"
)

// BackupArchiver stores a copy of the current data
type BackupArchiver interface {
	Archive(ctx context.Context) (string, error)
}

type BackupJobs struct {
	archiver BackupArchiver
	interval time.Duration
}

func NewBackupJobs(archiver BackupArchiver, interval time.Duration) *BackupJobs {
	return &BackupJobs{archiver: archiver, interval: interval}
}

func (j *BackupJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("archive_backup", j.interval, j.ArchiveBackup)
}

func (j *BackupJobs) ArchiveBackup(ctx context.Context) error {
	if _, err := j.archiver.Archive(ctx); err != nil {
		return fmt.Errorf("failed to archive backup: %w", err)
	}
	return nil
}
