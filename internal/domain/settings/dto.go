package settings

import (
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

// UpdateSettingsRequest changes the fields that are present and keeps the rest.
type UpdateSettingsRequest struct {
	Language                *string `json:"language,omitempty" validate:"omitempty,oneof=vi en"`
	FirstDayOfWeek          *string `json:"first_day_of_week,omitempty" validate:"omitempty,oneof=Mon Sun"`
	MultiButtonMode         *string `json:"multi_button_mode,omitempty" validate:"omitempty,oneof=full simple"`
	ChangeShiftReminderMode *string `json:"change_shift_reminder_mode,omitempty" validate:"omitempty,oneof=ask_weekly rotate disabled"`
}

func (r *UpdateSettingsRequest) Validate() error {
	return validator.Struct(r)
}

// Apply returns s with the fields of the request written over it.
func (r *UpdateSettingsRequest) Apply(s Settings) Settings {
	if r.Language != nil {
		s.Language = *r.Language
	}
	if r.FirstDayOfWeek != nil {
		s.FirstDayOfWeek = *r.FirstDayOfWeek
	}
	if r.MultiButtonMode != nil {
		s.MultiButtonMode = *r.MultiButtonMode
	}
	if r.ChangeShiftReminderMode != nil {
		s.ChangeShiftReminderMode = *r.ChangeShiftReminderMode
	}
	return s
}

// NewUpdateRequest is the request that reproduces s, as written into backups.
func NewUpdateRequest(s Settings) *UpdateSettingsRequest {
	return &UpdateSettingsRequest{
		Language:                &s.Language,
		FirstDayOfWeek:          &s.FirstDayOfWeek,
		MultiButtonMode:         &s.MultiButtonMode,
		ChangeShiftReminderMode: &s.ChangeShiftReminderMode,
	}
}

type SettingsResponse struct {
	Language                string  `json:"language"`
	FirstDayOfWeek          string  `json:"first_day_of_week"`
	MultiButtonMode         string  `json:"multi_button_mode"`
	ChangeShiftReminderMode string  `json:"change_shift_reminder_mode"`
	UpdatedAt               *string `json:"updated_at"`
}

func MapSettings(s Settings) SettingsResponse {
	resp := SettingsResponse{
		Language:                s.Language,
		FirstDayOfWeek:          s.FirstDayOfWeek,
		MultiButtonMode:         s.MultiButtonMode,
		ChangeShiftReminderMode: s.ChangeShiftReminderMode,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt.Format(time.RFC3339Nano)
		resp.UpdatedAt = &updated
	}
	return resp
}
