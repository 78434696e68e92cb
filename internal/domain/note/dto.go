package note

import (
	"errors"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

type CreateNoteRequest struct {
	Title                string   `json:"title" validate:"required,max=100"`
	Content              string   `json:"content" validate:"required,max=300"`
	ReminderTime         string   `json:"reminder_time" validate:"required,clock"`
	AssociatedShiftIDs   []string `json:"associated_shift_ids" validate:"dive,required"`
	ExplicitReminderDays []string `json:"explicit_reminder_days" validate:"dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
}

func (r *CreateNoteRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)

	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	// a note must be able to fire on some day
	if len(r.AssociatedShiftIDs) == 0 && len(r.ExplicitReminderDays) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "explicit_reminder_days",
			Message: "choose at least one day or associate the note with a shift",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateNoteRequest struct {
	ID string `json:"-"`
	CreateNoteRequest
}

func (r *UpdateNoteRequest) Validate() error {
	if err := r.CreateNoteRequest.Validate(); err != nil {
		return err
	}
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return nil
}

type NoteFilter struct {
	Limit *int `json:"limit,omitempty"`
}

func (f *NoteFilter) Validate() error {
	if f.Limit != nil && *f.Limit < 1 {
		return validator.ValidationErrors{{Field: "limit", Message: "limit must be at least 1"}}
	}
	return nil
}

type NoteResponse struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Content              string   `json:"content"`
	ReminderTime         string   `json:"reminder_time"`
	AssociatedShiftIDs   []string `json:"associated_shift_ids"`
	ExplicitReminderDays []string `json:"explicit_reminder_days"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

// MapNote converts a Note entity to its response shape
func MapNote(n Note) NoteResponse {
	resp := NoteResponse{
		ID:                   n.ID,
		Title:                n.Title,
		Content:              n.Content,
		ReminderTime:         n.ReminderTime,
		AssociatedShiftIDs:   n.AssociatedShiftIDs,
		ExplicitReminderDays: n.ExplicitReminderDays,
		CreatedAt:            n.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:            n.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if resp.AssociatedShiftIDs == nil {
		resp.AssociatedShiftIDs = []string{}
	}
	if resp.ExplicitReminderDays == nil {
		resp.ExplicitReminderDays = []string{}
	}
	return resp
}
