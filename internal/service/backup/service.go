package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/sse"
)

type BackupServiceImpl struct {
	backup.BackupRepository
	hub *sse.Hub
	now func() time.Time
}

func NewBackupService(backupRepo backup.BackupRepository, hub *sse.Hub, now func() time.Time) backup.BackupService {
	if now == nil {
		now = time.Now
	}
	return &BackupServiceImpl{
		BackupRepository: backupRepo,
		hub:              hub,
		now:              now,
	}
}

// Export implements backup.BackupService.
func (b *BackupServiceImpl) Export(ctx context.Context) (backup.Document, error) {
	snapshot, err := b.BackupRepository.Snapshot(ctx)
	if err != nil {
		return backup.Document{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	doc := backup.NewDocument(snapshot, b.now())
	slog.Info("Backup exported", "shifts", len(doc.Shifts), "days", len(doc.AttendanceLogs), "statuses", len(doc.DailyWorkStatus), "notes", len(doc.Notes))
	return doc, nil
}

// Restore implements backup.BackupService.
func (b *BackupServiceImpl) Restore(ctx context.Context, doc backup.Document) (backup.RestoreResponse, error) {
	snapshot, err := doc.ToSnapshot(b.now().UTC())
	if err != nil {
		return backup.RestoreResponse{}, err
	}

	if err := b.BackupRepository.Replace(ctx, snapshot); err != nil {
		return backup.RestoreResponse{}, fmt.Errorf("failed to restore backup: %w", err)
	}

	days := make(map[string]struct{})
	for _, e := range snapshot.Events {
		days[e.Date] = struct{}{}
	}

	resp := backup.RestoreResponse{
		Shifts:        len(snapshot.Shifts),
		ActiveShiftID: snapshot.ActiveShiftID,
		Days:          len(days),
		Events:        len(snapshot.Events),
		DailyStatuses: len(snapshot.DailyStatuses),
		Notes:         len(snapshot.Notes),
	}

	// today's state is derived from the restored log; tell listeners to reload
	if b.hub != nil {
		b.hub.Publish(attendance.TopicToday, sse.Event{Event: "restored", Data: resp})
	}

	slog.Info("Backup restored", "shifts", resp.Shifts, "events", resp.Events, "statuses", resp.DailyStatuses, "notes", resp.Notes)
	return resp, nil
}
