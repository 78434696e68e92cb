package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
)

type shiftRepositoryImpl struct {
	db *sql.DB
}

func NewShiftRepository(db *sql.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, name, start_time, office_end_time, end_time, departure_time, days_applied,
	remind_before_start, remind_after_end, show_punch, break_minutes, penalty_rounding_minutes,
	created_at, updated_at`

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	if err := insertShift(ctx, q, s); err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

func insertShift(ctx context.Context, q Querier, s shift.Shift) error {
	days, err := json.Marshal(s.DaysApplied)
	if err != nil {
		return fmt.Errorf("encode days applied: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.StartTime, s.OfficeEndTime, s.EndTime, s.DepartureTime, string(days),
		s.RemindBeforeStart, s.RemindAfterEnd, s.ShowPunch, s.BreakMinutes, s.PenaltyRoundingMinutes,
		formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	days, err := json.Marshal(s.DaysApplied)
	if err != nil {
		return fmt.Errorf("encode days applied: %w", err)
	}

	res, err := q.ExecContext(ctx, `
		UPDATE shifts SET
			name = ?, start_time = ?, office_end_time = ?, end_time = ?, departure_time = ?,
			days_applied = ?, remind_before_start = ?, remind_after_end = ?, show_punch = ?,
			break_minutes = ?, penalty_rounding_minutes = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.StartTime, s.OfficeEndTime, s.EndTime, s.DepartureTime,
		string(days), s.RemindBeforeStart, s.RemindAfterEnd, s.ShowPunch,
		s.BreakMinutes, s.PenaltyRoundingMinutes, formatTime(s.UpdatedAt),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		res, err := q.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete shift: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return shift.ErrShiftNotFound
		}

		_, err = q.ExecContext(ctx, `DELETE FROM app_settings WHERE key = ? AND value = ?`, settingActiveShift, id)
		if err != nil {
			return fmt.Errorf("clear active shift: %w", err)
		}
		return nil
	})
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)

	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	return listShifts(ctx, GetQuerier(ctx, r.db))
}

func listShifts(ctx context.Context, q Querier) ([]shift.Shift, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []shift.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// ExistsByName implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM shifts WHERE name = ? COLLATE NOCASE AND id <> ?)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check shift name: %w", err)
	}
	return exists, nil
}

// GetActive implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetActive(ctx context.Context) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+prefixed("s.", shiftColumns)+`
		FROM app_settings a
		JOIN shifts s ON s.id = a.value
		WHERE a.key = ?`, settingActiveShift)

	s, err := scanShift(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active shift: %w", err)
	}
	return &s, nil
}

// SetActive implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) SetActive(ctx context.Context, id *string) error {
	return setActive(ctx, GetQuerier(ctx, r.db), id)
}

func setActive(ctx context.Context, q Querier, id *string) error {
	if id == nil {
		_, err := q.ExecContext(ctx, `DELETE FROM app_settings WHERE key = ?`, settingActiveShift)
		if err != nil {
			return fmt.Errorf("clear active shift: %w", err)
		}
		return nil
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO app_settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		settingActiveShift, *id,
	)
	if err != nil {
		return fmt.Errorf("set active shift: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShift(row rowScanner) (shift.Shift, error) {
	var (
		s                    shift.Shift
		days                 string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&s.ID, &s.Name, &s.StartTime, &s.OfficeEndTime, &s.EndTime, &s.DepartureTime, &days,
		&s.RemindBeforeStart, &s.RemindAfterEnd, &s.ShowPunch, &s.BreakMinutes, &s.PenaltyRoundingMinutes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return shift.Shift{}, err
	}

	if err := json.Unmarshal([]byte(days), &s.DaysApplied); err != nil {
		return shift.Shift{}, fmt.Errorf("decode days applied: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return shift.Shift{}, fmt.Errorf("decode created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return shift.Shift{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return s, nil
}
