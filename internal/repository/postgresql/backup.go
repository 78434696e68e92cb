package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type backupRepositoryImpl struct {
	db *database.DB
}

func NewBackupRepository(db *database.DB) backup.BackupRepository {
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

		var active string
		err = q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, settingActiveShift).Scan(&active)
		switch {
		case err == nil:
			snapshot.ActiveShiftID = &active
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to get active shift: %w", err)
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
		return backup.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return snapshot, nil
}

// Replace implements backup.BackupRepository.
func (r *backupRepositoryImpl) Replace(ctx context.Context, snapshot backup.Snapshot) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		if _, err := q.Exec(ctx, `TRUNCATE TABLE app_settings, notes, daily_work_statuses, attendance_events, shifts`); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
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
