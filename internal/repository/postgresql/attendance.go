package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Append implements attendance.EventRepository.
func (r *eventRepositoryImpl) Append(ctx context.Context, date string, event attendance.Event) error {
	return appendEvent(ctx, GetQuerier(ctx, r.db), date, event)
}

func appendEvent(ctx context.Context, q database.Querier, date string, event attendance.Event) error {
	_, err := q.Exec(ctx,
		`INSERT INTO attendance_events (work_date, kind, occurred_at) VALUES ($1::date, $2, $3)`,
		date, string(event.Kind), event.Time,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ListByDate implements attendance.EventRepository.
func (r *eventRepositoryImpl) ListByDate(ctx context.Context, date string) ([]attendance.Event, error) {
	dated, err := r.List(ctx, attendance.DateRangeFilter{StartDate: &date, EndDate: &date})
	if err != nil {
		return nil, err
	}

	events := make([]attendance.Event, 0, len(dated))
	for _, d := range dated {
		events = append(events, d.Event)
	}
	return events, nil
}

// DeleteByDate implements attendance.EventRepository.
func (r *eventRepositoryImpl) DeleteByDate(ctx context.Context, date string) error {
	q := GetQuerier(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE work_date = $1::date`, date); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	return nil
}

// List implements attendance.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter attendance.DateRangeFilter) ([]attendance.DatedEvent, error) {
	return listEvents(ctx, GetQuerier(ctx, r.db), filter)
}

func listEvents(ctx context.Context, q database.Querier, filter attendance.DateRangeFilter) ([]attendance.DatedEvent, error) {
	where, args := dateRangeClause(filter.StartDate, filter.EndDate, nil)

	query := `SELECT work_date::text, kind, occurred_at FROM attendance_events` + where + ` ORDER BY work_date, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []attendance.DatedEvent
	for rows.Next() {
		var (
			e    attendance.DatedEvent
			kind string
		)
		if err := rows.Scan(&e.Date, &kind, &e.Time); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Kind = attendance.EventKind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// dateRangeClause builds a WHERE clause over work_date and an optional status.
func dateRangeClause(start, end, status *string) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if start != nil {
		args = append(args, *start)
		conds = append(conds, fmt.Sprintf("work_date >= $%d::date", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conds = append(conds, fmt.Sprintf("work_date <= $%d::date", len(args)))
	}
	if status != nil {
		args = append(args, *status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type dailyStatusRepositoryImpl struct {
	db *database.DB
}

func NewDailyStatusRepository(db *database.DB) attendance.DailyStatusRepository {
	return &dailyStatusRepositoryImpl{db: db}
}

const statusColumns = `
	work_date::text, shift_id, shift_name, status, remarks,
	check_in_time, check_out_time, shift_start_time, office_end_time, shift_end_time,
	late_minutes, early_minutes, penalty_minutes, break_minutes_config,
	gross_hours, total_hours, ot_hours, events, calculated_at`

// Put implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) Put(ctx context.Context, s attendance.DailyWorkStatus) error {
	return putStatus(ctx, GetQuerier(ctx, r.db), s)
}

func putStatus(ctx context.Context, q database.Querier, s attendance.DailyWorkStatus) error {
	events, err := encodeEvents(s.Events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}

	query := `
		INSERT INTO daily_work_statuses (
			work_date, shift_id, shift_name, status, remarks,
			check_in_time, check_out_time, shift_start_time, office_end_time, shift_end_time,
			late_minutes, early_minutes, penalty_minutes, break_minutes_config,
			gross_hours, total_hours, ot_hours, events, calculated_at
		) VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (work_date) DO UPDATE SET
			shift_id = EXCLUDED.shift_id,
			shift_name = EXCLUDED.shift_name,
			status = EXCLUDED.status,
			remarks = EXCLUDED.remarks,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			shift_start_time = EXCLUDED.shift_start_time,
			office_end_time = EXCLUDED.office_end_time,
			shift_end_time = EXCLUDED.shift_end_time,
			late_minutes = EXCLUDED.late_minutes,
			early_minutes = EXCLUDED.early_minutes,
			penalty_minutes = EXCLUDED.penalty_minutes,
			break_minutes_config = EXCLUDED.break_minutes_config,
			gross_hours = EXCLUDED.gross_hours,
			total_hours = EXCLUDED.total_hours,
			ot_hours = EXCLUDED.ot_hours,
			events = EXCLUDED.events,
			calculated_at = EXCLUDED.calculated_at
	`
	_, err = q.Exec(ctx, query,
		s.Date, s.ShiftID, s.ShiftName, string(s.Status), s.Remarks,
		s.CheckInTime, s.CheckOutTime, s.ShiftStartTime, s.OfficeEndTime, s.ShiftEndTime,
		s.LateMinutes, s.EarlyMinutes, s.PenaltyMinutes, s.BreakMinutesConfig,
		s.GrossHours, s.TotalHours, s.OTHours, events, s.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put daily status: %w", err)
	}
	return nil
}

// GetByDate implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) GetByDate(ctx context.Context, date string) (attendance.DailyWorkStatus, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanStatus(q.QueryRow(ctx, `SELECT `+statusColumns+` FROM daily_work_statuses WHERE work_date = $1::date`, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyWorkStatus{}, attendance.ErrDailyStatusNotFound
		}
		return attendance.DailyWorkStatus{}, fmt.Errorf("failed to get daily status: %w", err)
	}
	return s, nil
}

// List implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) List(ctx context.Context, filter attendance.DailyStatusFilter) ([]attendance.DailyWorkStatus, error) {
	return listStatuses(ctx, GetQuerier(ctx, r.db), filter)
}

func listStatuses(ctx context.Context, q database.Querier, filter attendance.DailyStatusFilter) ([]attendance.DailyWorkStatus, error) {
	where, args := dateRangeClause(filter.StartDate, filter.EndDate, filter.Status)

	rows, err := q.Query(ctx, `SELECT `+statusColumns+` FROM daily_work_statuses`+where+` ORDER BY work_date`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily statuses: %w", err)
	}
	defer rows.Close()

	var statuses []attendance.DailyWorkStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func scanStatus(row pgx.Row) (attendance.DailyWorkStatus, error) {
	var (
		s      attendance.DailyWorkStatus
		status string
		events []byte
	)
	err := row.Scan(
		&s.Date, &s.ShiftID, &s.ShiftName, &status, &s.Remarks,
		&s.CheckInTime, &s.CheckOutTime, &s.ShiftStartTime, &s.OfficeEndTime, &s.ShiftEndTime,
		&s.LateMinutes, &s.EarlyMinutes, &s.PenaltyMinutes, &s.BreakMinutesConfig,
		&s.GrossHours, &s.TotalHours, &s.OTHours, &events, &s.CalculatedAt,
	)
	if err != nil {
		return attendance.DailyWorkStatus{}, err
	}

	s.Status = attendance.WorkStatus(status)
	if s.Events, err = decodeEvents(events); err != nil {
		return attendance.DailyWorkStatus{}, fmt.Errorf("failed to decode status events: %w", err)
	}
	return s, nil
}
