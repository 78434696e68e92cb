package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
)

const currentVersion = 2

// Open opens the database at path and brings its schema up to date.
func Open(path string) (*sql.DB, error) {
	db, err := database.NewSQLiteDB(path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Migrate applies pending schema versions tracked in PRAGMA user_version.
func Migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if _, err := db.Exec(schemaV1); err != nil {
			return fmt.Errorf("apply v1: %w", err)
		}
	}
	if version < 2 {
		if _, err := db.Exec(schemaV2); err != nil {
			return fmt.Errorf("apply v2: %w", err)
		}
	}

	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS shifts (
	id                       TEXT PRIMARY KEY,
	name                     TEXT NOT NULL,
	start_time               TEXT NOT NULL,
	office_end_time          TEXT NOT NULL,
	end_time                 TEXT NOT NULL,
	departure_time           TEXT NOT NULL,
	days_applied             TEXT NOT NULL DEFAULT '[]',
	remind_before_start      INTEGER NOT NULL DEFAULT 0,
	remind_after_end         INTEGER NOT NULL DEFAULT 0,
	show_punch               INTEGER NOT NULL DEFAULT 0,
	break_minutes            INTEGER NOT NULL DEFAULT 0,
	penalty_rounding_minutes INTEGER NOT NULL CHECK (penalty_rounding_minutes > 0),
	created_at               TEXT NOT NULL,
	updated_at               TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_name ON shifts(name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS attendance_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	work_date   TEXT NOT NULL,
	kind        TEXT NOT NULL,
	occurred_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_date ON attendance_events(work_date, id);

CREATE TABLE IF NOT EXISTS daily_work_statuses (
	work_date            TEXT PRIMARY KEY,
	shift_id             TEXT NOT NULL,
	shift_name           TEXT NOT NULL,
	status               TEXT NOT NULL,
	remarks              TEXT NOT NULL DEFAULT '',
	check_in_time        TEXT,
	check_out_time       TEXT,
	shift_start_time     TEXT,
	office_end_time      TEXT,
	shift_end_time       TEXT,
	late_minutes         INTEGER,
	early_minutes        INTEGER,
	penalty_minutes      INTEGER,
	break_minutes_config INTEGER,
	gross_hours          REAL,
	total_hours          REAL,
	ot_hours             REAL,
	events               TEXT NOT NULL DEFAULT '[]',
	calculated_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_statuses_status ON daily_work_statuses(status);

CREATE TABLE IF NOT EXISTS app_settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// v2: notes
const schemaV2 = `
CREATE TABLE IF NOT EXISTS notes (
	id                     TEXT PRIMARY KEY,
	title                  TEXT NOT NULL,
	content                TEXT NOT NULL,
	reminder_time          TEXT NOT NULL,
	associated_shift_ids   TEXT NOT NULL DEFAULT '[]',
	explicit_reminder_days TEXT NOT NULL DEFAULT '[]',
	created_at             TEXT NOT NULL,
	updated_at             TEXT NOT NULL
);
`

const settingActiveShift = "active_shift_id"

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithTransaction executes fn inside a transaction; repositories called with
// the context passed to fn join it. A ctx already carrying a transaction is
// reused as is.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetQuerier returns the transaction bound to ctx, or db.
func GetQuerier(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// prefixed qualifies every column of a comma separated list with prefix.
func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func timePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

type eventJSON struct {
	Kind string    `json:"kind"`
	Time time.Time `json:"time"`
}

func encodeEvents(events []attendance.Event) (string, error) {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, eventJSON{Kind: string(e.Kind), Time: e.Time})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeEvents(s string) ([]attendance.Event, error) {
	var in []eventJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, nil
	}
	events := make([]attendance.Event, 0, len(in))
	for _, e := range in {
		events = append(events, attendance.Event{Kind: attendance.EventKind(e.Kind), Time: e.Time})
	}
	return events, nil
}
