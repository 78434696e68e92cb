package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
)

type eventRepositoryImpl struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) attendance.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Append implements attendance.EventRepository.
func (r *eventRepositoryImpl) Append(ctx context.Context, date string, event attendance.Event) error {
	return appendEvent(ctx, GetQuerier(ctx, r.db), date, event)
}

func appendEvent(ctx context.Context, q Querier, date string, event attendance.Event) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO attendance_events (work_date, kind, occurred_at) VALUES (?, ?, ?)`,
		date, string(event.Kind), formatTime(event.Time),
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
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
	if _, err := q.ExecContext(ctx, `DELETE FROM attendance_events WHERE work_date = ?`, date); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	return nil
}

// List implements attendance.EventRepository.
func (r *eventRepositoryImpl) List(ctx context.Context, filter attendance.DateRangeFilter) ([]attendance.DatedEvent, error) {
	return listEvents(ctx, GetQuerier(ctx, r.db), filter)
}

func listEvents(ctx context.Context, q Querier, filter attendance.DateRangeFilter) ([]attendance.DatedEvent, error) {
	var (
		where []string
		args  []any
	)
	if filter.StartDate != nil {
		where = append(where, "work_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, "work_date <= ?")
		args = append(args, *filter.EndDate)
	}

	query := `SELECT work_date, kind, occurred_at FROM attendance_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY work_date, id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []attendance.DatedEvent
	for rows.Next() {
		var (
			e          attendance.DatedEvent
			kind, when string
		)
		if err := rows.Scan(&e.Date, &kind, &when); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Kind = attendance.EventKind(kind)
		if e.Time, err = parseTime(when); err != nil {
			return nil, fmt.Errorf("decode event time: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type dailyStatusRepositoryImpl struct {
	db *sql.DB
}

func NewDailyStatusRepository(db *sql.DB) attendance.DailyStatusRepository {
	return &dailyStatusRepositoryImpl{db: db}
}

const statusColumns = `work_date, shift_id, shift_name, status, remarks,
	check_in_time, check_out_time, shift_start_time, office_end_time, shift_end_time,
	late_minutes, early_minutes, penalty_minutes, break_minutes_config,
	gross_hours, total_hours, ot_hours, events, calculated_at`

// Put implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) Put(ctx context.Context, s attendance.DailyWorkStatus) error {
	return putStatus(ctx, GetQuerier(ctx, r.db), s)
}

func putStatus(ctx context.Context, q Querier, s attendance.DailyWorkStatus) error {
	events, err := encodeEvents(s.Events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	// INSERT OR REPLACE drops the old row, so no column survives a recompute
	_, err = q.ExecContext(ctx, `
		INSERT OR REPLACE INTO daily_work_statuses (`+statusColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Date, s.ShiftID, s.ShiftName, string(s.Status), s.Remarks,
		nullTime(s.CheckInTime), nullTime(s.CheckOutTime), nullTime(s.ShiftStartTime),
		nullTime(s.OfficeEndTime), nullTime(s.ShiftEndTime),
		nullInt(s.LateMinutes), nullInt(s.EarlyMinutes), nullInt(s.PenaltyMinutes), nullInt(s.BreakMinutesConfig),
		nullFloat(s.GrossHours), nullFloat(s.TotalHours), nullFloat(s.OTHours),
		events, formatTime(s.CalculatedAt),
	)
	if err != nil {
		return fmt.Errorf("put daily status: %w", err)
	}
	return nil
}

// GetByDate implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) GetByDate(ctx context.Context, date string) (attendance.DailyWorkStatus, error) {
	q := GetQuerier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+statusColumns+` FROM daily_work_statuses WHERE work_date = ?`, date)

	s, err := scanStatus(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.DailyWorkStatus{}, attendance.ErrDailyStatusNotFound
		}
		return attendance.DailyWorkStatus{}, fmt.Errorf("get daily status: %w", err)
	}
	return s, nil
}

// List implements attendance.DailyStatusRepository.
func (r *dailyStatusRepositoryImpl) List(ctx context.Context, filter attendance.DailyStatusFilter) ([]attendance.DailyWorkStatus, error) {
	return listStatuses(ctx, GetQuerier(ctx, r.db), filter)
}

func listStatuses(ctx context.Context, q Querier, filter attendance.DailyStatusFilter) ([]attendance.DailyWorkStatus, error) {
	var (
		where []string
		args  []any
	)
	if filter.StartDate != nil {
		where = append(where, "work_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, "work_date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + statusColumns + ` FROM daily_work_statuses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY work_date"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily statuses: %w", err)
	}
	defer rows.Close()

	var statuses []attendance.DailyWorkStatus
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily status: %w", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func scanStatus(row rowScanner) (attendance.DailyWorkStatus, error) {
	var (
		s                                        attendance.DailyWorkStatus
		status, events, calculatedAt             string
		checkIn, checkOut, start, officeEnd, end sql.NullString
		late, early, penalty, breakMinutes       sql.NullInt64
		gross, total, ot                         sql.NullFloat64
	)
	err := row.Scan(
		&s.Date, &s.ShiftID, &s.ShiftName, &status, &s.Remarks,
		&checkIn, &checkOut, &start, &officeEnd, &end,
		&late, &early, &penalty, &breakMinutes,
		&gross, &total, &ot, &events, &calculatedAt,
	)
	if err != nil {
		return attendance.DailyWorkStatus{}, err
	}

	s.Status = attendance.WorkStatus(status)
	s.LateMinutes = intPtr(late)
	s.EarlyMinutes = intPtr(early)
	s.PenaltyMinutes = intPtr(penalty)
	s.BreakMinutesConfig = intPtr(breakMinutes)
	s.GrossHours = floatPtr(gross)
	s.TotalHours = floatPtr(total)
	s.OTHours = floatPtr(ot)

	for _, tf := range []struct {
		in  sql.NullString
		out **time.Time
	}{
		{checkIn, &s.CheckInTime},
		{checkOut, &s.CheckOutTime},
		{start, &s.ShiftStartTime},
		{officeEnd, &s.OfficeEndTime},
		{end, &s.ShiftEndTime},
	} {
		if *tf.out, err = timePtr(tf.in); err != nil {
			return attendance.DailyWorkStatus{}, fmt.Errorf("decode status time: %w", err)
		}
	}

	if s.Events, err = decodeEvents(events); err != nil {
		return attendance.DailyWorkStatus{}, fmt.Errorf("decode status events: %w", err)
	}
	if s.CalculatedAt, err = parseTime(calculatedAt); err != nil {
		return attendance.DailyWorkStatus{}, fmt.Errorf("decode calculated_at: %w", err)
	}
	return s, nil
}
