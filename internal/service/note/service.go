package note

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type NoteServiceImpl struct {
	note.NoteRepository
	shift.ShiftRepository
	now func() time.Time
}

func NewNoteService(noteRepo note.NoteRepository, shiftRepo shift.ShiftRepository, now func() time.Time) note.NoteService {
	if now == nil {
		now = time.Now
	}
	return &NoteServiceImpl{
		NoteRepository:  noteRepo,
		ShiftRepository: shiftRepo,
		now:             now,
	}
}

// Create implements note.NoteService.
func (s *NoteServiceImpl) Create(ctx context.Context, req note.CreateNoteRequest) (note.NoteResponse, error) {
	if err := req.Validate(); err != nil {
		return note.NoteResponse{}, err
	}
	if err := s.checkShifts(ctx, req.AssociatedShiftIDs); err != nil {
		return note.NoteResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return note.NoteResponse{}, fmt.Errorf("failed to generate note id: %w", err)
	}

	now := s.now().UTC()
	newNote := fromRequest(req)
	newNote.ID = id.String()
	newNote.CreatedAt = now
	newNote.UpdatedAt = now

	created, err := s.NoteRepository.Create(ctx, newNote)
	if err != nil {
		return note.NoteResponse{}, fmt.Errorf("failed to create note: %w", err)
	}

	slog.Info("Note created", "note_id", created.ID)
	return note.MapNote(created), nil
}

// Update implements note.NoteService.
func (s *NoteServiceImpl) Update(ctx context.Context, req note.UpdateNoteRequest) (note.NoteResponse, error) {
	if err := req.Validate(); err != nil {
		return note.NoteResponse{}, err
	}

	existing, err := s.NoteRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, note.ErrNoteNotFound) {
			return note.NoteResponse{}, note.ErrNoteNotFound
		}
		return note.NoteResponse{}, fmt.Errorf("failed to get note: %w", err)
	}
	if err := s.checkShifts(ctx, req.AssociatedShiftIDs); err != nil {
		return note.NoteResponse{}, err
	}

	updated := fromRequest(req.CreateNoteRequest)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.NoteRepository.Update(ctx, updated); err != nil {
		return note.NoteResponse{}, fmt.Errorf("failed to update note: %w", err)
	}

	slog.Info("Note updated", "note_id", updated.ID)
	return note.MapNote(updated), nil
}

// Delete implements note.NoteService.
func (s *NoteServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.NoteRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, note.ErrNoteNotFound) {
			return note.ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}

	slog.Info("Note deleted", "note_id", id)
	return nil
}

// Get implements note.NoteService.
func (s *NoteServiceImpl) Get(ctx context.Context, id string) (note.NoteResponse, error) {
	found, err := s.NoteRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, note.ErrNoteNotFound) {
			return note.NoteResponse{}, note.ErrNoteNotFound
		}
		return note.NoteResponse{}, fmt.Errorf("failed to get note: %w", err)
	}
	return note.MapNote(found), nil
}

// List implements note.NoteService.
func (s *NoteServiceImpl) List(ctx context.Context, filter note.NoteFilter) ([]note.NoteResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	notes, err := s.NoteRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	SortByReminder(notes)
	if filter.Limit != nil && len(notes) > *filter.Limit {
		notes = notes[:*filter.Limit]
	}

	responses := make([]note.NoteResponse, 0, len(notes))
	for _, n := range notes {
		responses = append(responses, note.MapNote(n))
	}
	return responses, nil
}

// SortByReminder orders notes by reminder time, then by most recent update.
func SortByReminder(notes []note.Note) {
	slices.SortStableFunc(notes, func(a, b note.Note) int {
		if c := cmp.Compare(a.ReminderTime, b.ReminderTime); c != 0 {
			return c
		}
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// checkShifts rejects associations with shifts that do not exist.
func (s *NoteServiceImpl) checkShifts(ctx context.Context, ids []string) error {
	var errs validator.ValidationErrors
	for i, id := range ids {
		_, err := s.ShiftRepository.GetByID(ctx, id)
		switch {
		case err == nil:
		case errors.Is(err, shift.ErrShiftNotFound):
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("associated_shift_ids[%d]", i),
				Message: fmt.Sprintf("shift %s does not exist", id),
			})
		default:
			return fmt.Errorf("failed to get shift: %w", err)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fromRequest(req note.CreateNoteRequest) note.Note {
	return note.Note{
		Title:                req.Title,
		Content:              req.Content,
		ReminderTime:         req.ReminderTime,
		AssociatedShiftIDs:   append([]string(nil), req.AssociatedShiftIDs...),
		ExplicitReminderDays: append([]string(nil), req.ExplicitReminderDays...),
	}
}
