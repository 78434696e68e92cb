package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
)

type backupRepositoryImpl struct {
	db *sql.DB
}

func NewBackupRepository(db *sql.DB) backup.BackupRepository {
	return &backupRepositoryImpl{db: db}
}

// Snapshot implements backup.BackupRepository.
func (r *backupRepositoryImpl) Snapshot(ctx context.Context) (backup.Snapshot, error) {
	var snapshot backup.Snapshot

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var err error
		if snapshot.Shifts, err = listShifts(ctx, q); err != nil {
			return err
		}

		var active sql.NullString
		err = q.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE key = ?`, settingActiveShift).Scan(&active)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("get active shift: %w", err)
		}
		if active.Valid {
			snapshot.ActiveShiftID = &active.String
		}

		if snapshot.Events, err = listEvents(ctx, q, attendance.DateRangeFilter{}); err != nil {
			return err
		}
		if snapshot.DailyStatuses, err = listStatuses(ctx, q, attendance.DailyStatusFilter{}); err != nil {
			return err
		}
		if snapshot.Notes, err = listNotes(ctx, q); err != nil {
			return err
		}

		stored, ok, err := getSettings(ctx, q)
		if err != nil {
			return err
		}
		if ok {
			snapshot.Settings = &stored
		}
		return nil
	})
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return snapshot, nil
}

// Replace implements backup.BackupRepository.
func (r *backupRepositoryImpl) Replace(ctx context.Context, snapshot backup.Snapshot) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		for _, table := range []string{"app_settings", "notes", "daily_work_statuses", "attendance_events", "shifts"} {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for _, s := range snapshot.Shifts {
			if err := insertShift(ctx, q, s); err != nil {
				return err
			}
		}
		if err := setActive(ctx, q, snapshot.ActiveShiftID); err != nil {
			return err
		}
		for _, e := range snapshot.Events {
			if err := appendEvent(ctx, q, e.Date, e.Event); err != nil {
				return err
			}
		}
		for _, s := range snapshot.DailyStatuses {
			if err := putStatus(ctx, q, s); err != nil {
				return err
			}
		}
		for _, n := range snapshot.Notes {
			if err := insertNote(ctx, q, n); err != nil {
				return err
			}
		}
		if snapshot.Settings != nil {
			if err := putSettings(ctx, q, *snapshot.Settings); err != nil {
				return err
			}
		}
		return nil
	})
}
