package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// Test Default - unknown languages fall back to Vietnamese
func TestDefault(t *testing.T) {
	assert.Equal(t, LanguageEnglish, Default("en").Language)
	assert.Equal(t, LanguageVietnamese, Default("fr").Language)

	d := Default("")
	assert.Equal(t, FirstDayMonday, d.FirstDayOfWeek)
	assert.Equal(t, ButtonModeFull, d.MultiButtonMode)
	assert.Equal(t, ReminderDisabled, d.ChangeShiftReminderMode)
	assert.True(t, d.UpdatedAt.IsZero())
}

// Test WeekStart
func TestSettings_WeekStart(t *testing.T) {
	assert.Equal(t, time.Monday, Default("vi").WeekStart())
	assert.Equal(t, time.Sunday, Settings{FirstDayOfWeek: FirstDaySunday}.WeekStart())
}

// Test UpdateSettingsRequest - Validate rejects unknown values
func TestUpdateSettingsRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateSettingsRequest{}).Validate())

	req := UpdateSettingsRequest{
		Language:                ptr("fr"),
		FirstDayOfWeek:          ptr("Wed"),
		MultiButtonMode:         ptr("tiny"),
		ChangeShiftReminderMode: ptr("daily"),
	}
	var errs validator.ValidationErrors
	require.True(t, errors.As(req.Validate(), &errs))
	assert.True(t, errs.HasField("language"))
	assert.True(t, errs.HasField("first_day_of_week"))
	assert.True(t, errs.HasField("multi_button_mode"))
	assert.True(t, errs.HasField("change_shift_reminder_mode"))
}

// Test UpdateSettingsRequest - Apply keeps absent fields
func TestUpdateSettingsRequest_Apply(t *testing.T) {
	base := Default("vi")
	got := (&UpdateSettingsRequest{MultiButtonMode: ptr(ButtonModeSimple)}).Apply(base)

	assert.Equal(t, ButtonModeSimple, got.MultiButtonMode)
	assert.Equal(t, LanguageVietnamese, got.Language)
	assert.Equal(t, FirstDayMonday, got.FirstDayOfWeek)

	assert.Equal(t, got, NewUpdateRequest(got).Apply(Default("en")))
}

// Test MapSettings - UpdatedAt only once saved
func TestMapSettings(t *testing.T) {
	assert.Nil(t, MapSettings(Default("vi")).UpdatedAt)

	s := Default("vi")
	s.UpdatedAt = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	resp := MapSettings(s)
	require.NotNil(t, resp.UpdatedAt)
	assert.Equal(t, "2025-03-01T08:00:00Z", *resp.UpdatedAt)
}
