package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `
	s.id, s.name, s.start_time, s.office_end_time, s.end_time, s.departure_time, s.days_applied,
	s.remind_before_start, s.remind_after_end, s.show_punch, s.break_minutes, s.penalty_rounding_minutes,
	s.created_at, s.updated_at`

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, newShift shift.Shift) (shift.Shift, error) {
	if err := insertShift(ctx, GetQuerier(ctx, r.db), newShift); err != nil {
		return shift.Shift{}, err
	}
	return newShift, nil
}

func insertShift(ctx context.Context, q database.Querier, s shift.Shift) error {
	query := `
		INSERT INTO shifts (
			id, name, start_time, office_end_time, end_time, departure_time, days_applied,
			remind_before_start, remind_after_end, show_punch, break_minutes, penalty_rounding_minutes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := q.Exec(ctx, query,
		s.ID, s.Name, s.StartTime, s.OfficeEndTime, s.EndTime, s.DepartureTime, s.DaysApplied,
		s.RemindBeforeStart, s.RemindAfterEnd, s.ShowPunch, s.BreakMinutes, s.PenaltyRoundingMinutes,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	return nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, s shift.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts SET
			name = $1, start_time = $2, office_end_time = $3, end_time = $4, departure_time = $5,
			days_applied = $6, remind_before_start = $7, remind_after_end = $8, show_punch = $9,
			break_minutes = $10, penalty_rounding_minutes = $11, updated_at = $12
		WHERE id = $13
	`
	tag, err := q.Exec(ctx, query,
		s.Name, s.StartTime, s.OfficeEndTime, s.EndTime, s.DepartureTime,
		s.DaysApplied, s.RemindBeforeStart, s.RemindAfterEnd, s.ShowPunch,
		s.BreakMinutes, s.PenaltyRoundingMinutes, s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete shift: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shift.ErrShiftNotFound
		}

		_, err = q.Exec(ctx, `DELETE FROM app_settings WHERE key = $1 AND value = $2`, settingActiveShift, id)
		if err != nil {
			return fmt.Errorf("failed to clear active shift: %w", err)
		}
		return nil
	})
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts s WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return s, nil
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	return listShifts(ctx, GetQuerier(ctx, r.db))
}

func listShifts(ctx context.Context, q database.Querier) ([]shift.Shift, error) {
	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts s ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	shifts := []shift.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// ExistsByName implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM shifts WHERE LOWER(name) = LOWER($1) AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check shift name: %w", err)
	}
	return exists, nil
}

// GetActive implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetActive(ctx context.Context) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM app_settings a
		JOIN shifts s ON s.id = a.value
		WHERE a.key = $1
	`
	s, err := scanShift(q.QueryRow(ctx, query, settingActiveShift))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active shift: %w", err)
	}
	return &s, nil
}

// SetActive implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) SetActive(ctx context.Context, id *string) error {
	return setActive(ctx, GetQuerier(ctx, r.db), id)
}

func setActive(ctx context.Context, q database.Querier, id *string) error {
	if id == nil {
		if _, err := q.Exec(ctx, `DELETE FROM app_settings WHERE key = $1`, settingActiveShift); err != nil {
			return fmt.Errorf("failed to clear active shift: %w", err)
		}
		return nil
	}

	_, err := q.Exec(ctx, `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, settingActiveShift, *id)
	if err != nil {
		return fmt.Errorf("failed to set active shift: %w", err)
	}
	return nil
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID, &s.Name, &s.StartTime, &s.OfficeEndTime, &s.EndTime, &s.DepartureTime, &s.DaysApplied,
		&s.RemindBeforeStart, &s.RemindAfterEnd, &s.ShowPunch, &s.BreakMinutes, &s.PenaltyRoundingMinutes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
