package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type noteRepositoryImpl struct {
	db *database.DB
}

func NewNoteRepository(db *database.DB) note.NoteRepository {
	return &noteRepositoryImpl{db: db}
}

const noteColumns = `
	id, title, content, reminder_time, associated_shift_ids, explicit_reminder_days,
	created_at, updated_at`

// Create implements note.NoteRepository.
func (r *noteRepositoryImpl) Create(ctx context.Context, n note.Note) (note.Note, error) {
	if err := insertNote(ctx, GetQuerier(ctx, r.db), n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func insertNote(ctx context.Context, q database.Querier, n note.Note) error {
	query := `
		INSERT INTO notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.Exec(ctx, query,
		n.ID, n.Title, n.Content, n.ReminderTime, nonNil(n.AssociatedShiftIDs), nonNil(n.ExplicitReminderDays),
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// Update implements note.NoteRepository.
func (r *noteRepositoryImpl) Update(ctx context.Context, n note.Note) error {
	query := `
		UPDATE notes SET
			title = $1, content = $2, reminder_time = $3, associated_shift_ids = $4,
			explicit_reminder_days = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, query,
		n.Title, n.Content, n.ReminderTime, nonNil(n.AssociatedShiftIDs),
		nonNil(n.ExplicitReminderDays), n.UpdatedAt,
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

// Delete implements note.NoteRepository.
func (r *noteRepositoryImpl) Delete(ctx context.Context, id string) error {
	tag, err := GetQuerier(ctx, r.db).Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return note.ErrNoteNotFound
	}
	return nil
}

// GetByID implements note.NoteRepository.
func (r *noteRepositoryImpl) GetByID(ctx context.Context, id string) (note.Note, error) {
	n, err := scanNote(GetQuerier(ctx, r.db).QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, note.ErrNoteNotFound
		}
		return note.Note{}, fmt.Errorf("failed to get note: %w", err)
	}
	return n, nil
}

// List implements note.NoteRepository.
func (r *noteRepositoryImpl) List(ctx context.Context) ([]note.Note, error) {
	return listNotes(ctx, GetQuerier(ctx, r.db))
}

func listNotes(ctx context.Context, q database.Querier) ([]note.Note, error) {
	rows, err := q.Query(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []note.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanNote(row pgx.Row) (note.Note, error) {
	var n note.Note
	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.ReminderTime, &n.AssociatedShiftIDs, &n.ExplicitReminderDays,
		&n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}
