package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
)

type noteRepositoryImpl struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) note.NoteRepository {
	return &noteRepositoryImpl{db: db}
}

const noteColumns = `id, title, content, reminder_time, associated_shift_ids, explicit_reminder_days,
	created_at, updated_at`

// Create implements note.NoteRepository.
func (r *noteRepositoryImpl) Create(ctx context.Context, n note.Note) (note.Note, error) {
	if err := insertNote(ctx, GetQuerier(ctx, r.db), n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func insertNote(ctx context.Context, q Querier, n note.Note) error {
	shifts, days, err := encodeNoteLists(n)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.ReminderTime, shifts, days,
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// Update implements note.NoteRepository.
func (r *noteRepositoryImpl) Update(ctx context.Context, n note.Note) error {
	shifts, days, err := encodeNoteLists(n)
	if err != nil {
		return err
	}

	res, err := GetQuerier(ctx, r.db).ExecContext(ctx, `
		UPDATE notes SET
			title = ?, content = ?, reminder_time = ?, associated_shift_ids = ?,
			explicit_reminder_days = ?, updated_at = ?
		WHERE id = ?`,
		n.Title, n.Content, n.ReminderTime, shifts,
		days, formatTime(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

// Delete implements note.NoteRepository.
func (r *noteRepositoryImpl) Delete(ctx context.Context, id string) error {
	res, err := GetQuerier(ctx, r.db).ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

// GetByID implements note.NoteRepository.
func (r *noteRepositoryImpl) GetByID(ctx context.Context, id string) (note.Note, error) {
	row := GetQuerier(ctx, r.db).QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note.Note{}, note.ErrNoteNotFound
		}
		return note.Note{}, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List implements note.NoteRepository.
func (r *noteRepositoryImpl) List(ctx context.Context) ([]note.Note, error) {
	return listNotes(ctx, GetQuerier(ctx, r.db))
}

func listNotes(ctx context.Context, q Querier) ([]note.Note, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func encodeNoteLists(n note.Note) (string, string, error) {
	shifts, err := json.Marshal(nonNil(n.AssociatedShiftIDs))
	if err != nil {
		return "", "", fmt.Errorf("encode associated shifts: %w", err)
	}
	days, err := json.Marshal(nonNil(n.ExplicitReminderDays))
	if err != nil {
		return "", "", fmt.Errorf("encode reminder days: %w", err)
	}
	return string(shifts), string(days), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanNote(row rowScanner) (note.Note, error) {
	var (
		n                    note.Note
		shifts, days         string
		createdAt, updatedAt string
	)
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.ReminderTime, &shifts, &days, &createdAt, &updatedAt)
	if err != nil {
		return note.Note{}, err
	}

	if err := json.Unmarshal([]byte(shifts), &n.AssociatedShiftIDs); err != nil {
		return note.Note{}, fmt.Errorf("decode associated shifts: %w", err)
	}
	if err := json.Unmarshal([]byte(days), &n.ExplicitReminderDays); err != nil {
		return note.Note{}, fmt.Errorf("decode reminder days: %w", err)
	}
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return note.Note{}, fmt.Errorf("decode created_at: %w", err)
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return note.Note{}, fmt.Errorf("decode updated_at: %w", err)
	}
	return n, nil
}
