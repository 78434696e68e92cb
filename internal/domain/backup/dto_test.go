package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var restoredAt = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

func record(id, name string) ShiftRecord {
	return ShiftRecord{
		ID: id,
		CreateShiftRequest: shift.CreateShiftRequest{
			Name:                   name,
			StartTime:              "09:00",
			OfficeEndTime:          "18:00",
			EndTime:                "19:00",
			DepartureTime:          "08:30",
			DaysApplied:            []string{"Mon"},
			PenaltyRoundingMinutes: 15,
		},
	}
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

// Test ToSnapshot - Success
func TestDocument_ToSnapshot_Success(t *testing.T) {
	active := "s1"
	doc := Document{
		Version:       DocumentVersion,
		Shifts:        []ShiftRecord{record("s1", "Day")},
		ActiveShiftID: &active,
		AttendanceLogs: map[string][]attendance.EventResponse{
			"2025-03-11": {{Kind: "depart", Time: "2025-03-11T08:30:00+07:00"}},
			"2025-03-10": {
				{Kind: "check_in", Time: "2025-03-10T09:00:00+07:00"},
				{Kind: "check_out", Time: "2025-03-10T18:00:00+07:00"},
			},
		},
		DailyWorkStatus: map[string]attendance.DailyStatusResponse{
			"2025-03-10": {Status: "completed", ShiftID: "s1", CalculatedAt: "2025-03-10T18:00:00+07:00"},
		},
		UserSettings: &settings.UpdateSettingsRequest{FirstDayOfWeek: ptr(settings.FirstDaySunday)},
		Notes: []note.NoteResponse{{
			ID: "n1", Title: "Payslip", Content: "Check overtime", ReminderTime: "17:30",
			ExplicitReminderDays: []string{"Fri"}, CreatedAt: "2025-03-01T08:00:00Z",
		}},
	}

	snapshot, err := doc.ToSnapshot(restoredAt)
	require.NoError(t, err)
	require.Len(t, snapshot.Shifts, 1)
	assert.Equal(t, restoredAt, snapshot.Shifts[0].CreatedAt)
	require.Len(t, snapshot.Events, 3)
	assert.Equal(t, "2025-03-10", snapshot.Events[0].Date)
	assert.Equal(t, "2025-03-11", snapshot.Events[2].Date)
	require.Len(t, snapshot.DailyStatuses, 1)
	assert.Equal(t, "2025-03-10", snapshot.DailyStatuses[0].Date)
	assert.Nil(t, snapshot.DailyStatuses[0].LateMinutes)

	require.NotNil(t, snapshot.Settings)
	assert.Equal(t, settings.FirstDaySunday, snapshot.Settings.FirstDayOfWeek)
	assert.Equal(t, settings.LanguageVietnamese, snapshot.Settings.Language)
	assert.Equal(t, restoredAt, snapshot.Settings.UpdatedAt)

	require.Len(t, snapshot.Notes, 1)
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	assert.True(t, created.Equal(snapshot.Notes[0].CreatedAt))
	assert.True(t, created.Equal(snapshot.Notes[0].UpdatedAt))
}

func ptr[T any](v T) *T { return &v }

// Test ToSnapshot - a document without user_settings is rejected
func TestDocument_ToSnapshot_MissingUserSettings(t *testing.T) {
	doc := Document{Version: DocumentVersion, Shifts: []ShiftRecord{record("s1", "Day")}}

	_, err := doc.ToSnapshot(restoredAt)
	assert.ErrorIs(t, err, ErrInvalidBackup)

	doc.UserSettings = &settings.UpdateSettingsRequest{}
	snapshot, err := doc.ToSnapshot(restoredAt)
	require.NoError(t, err)
	require.NotNil(t, snapshot.Settings)
	assert.Equal(t, settings.Default(settings.LanguageVietnamese).MultiButtonMode, snapshot.Settings.MultiButtonMode)
	assert.Empty(t, snapshot.Notes)
}

// Test ToSnapshot - Structural failures
func TestDocument_ToSnapshot_Rejects(t *testing.T) {
	_, err := (&Document{}).ToSnapshot(restoredAt)
	assert.ErrorIs(t, err, ErrInvalidBackup)

	_, err = (&Document{Version: 9, Shifts: []ShiftRecord{}}).ToSnapshot(restoredAt)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	missing := "ghost"
	bad := record("s2", "Night")
	bad.OfficeEndTime = "10:00"
	doc := Document{
		Shifts:        []ShiftRecord{record("s1", "Day"), record("s1", "day"), bad},
		ActiveShiftID: &missing,
		AttendanceLogs: map[string][]attendance.EventResponse{
			"10/03/2025": {},
			"2025-03-10": {{Kind: "teleport", Time: "2025-03-10T09:00:00Z"}},
		},
		DailyWorkStatus: map[string]attendance.DailyStatusResponse{
			"2025-03-10": {Status: "sleeping", CalculatedAt: "2025-03-10T18:00:00Z"},
		},
		UserSettings: &settings.UpdateSettingsRequest{Language: ptr("fr")},
		Notes: []note.NoteResponse{
			{ID: "n1", Title: "Ok", Content: "Fine", ReminderTime: "08:00", ExplicitReminderDays: []string{"Mon"}},
			{ID: "n1", Title: "Dup", Content: "Twice", ReminderTime: "08:00", ExplicitReminderDays: []string{"Mon"}},
			{ID: "n2", Title: "Bad", Content: "Never", ReminderTime: "25:00"},
		},
	}

	fields := validationFields(t, doc.Validate())
	assert.Contains(t, fields, "shifts[1].id")
	assert.Contains(t, fields, "shifts[1].name")
	assert.Contains(t, fields, "shifts[2].office_end_time")
	assert.Contains(t, fields, "active_shift_id")
	assert.Contains(t, fields, "attendance_logs.10/03/2025")
	assert.Contains(t, fields, "attendance_logs.2025-03-10[0]")
	assert.Contains(t, fields, "daily_work_status.2025-03-10")
	assert.Contains(t, fields, "user_settings.language")
	assert.Contains(t, fields, "notes[1].id")
	assert.Contains(t, fields, "notes[2].reminder_time")
	assert.Contains(t, fields, "notes[2].explicit_reminder_days")
}

// Test NewDocument - groups events by day
func TestNewDocument(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	doc := NewDocument(Snapshot{
		Shifts: []shift.Shift{{ID: "s1", Name: "Day", CreatedAt: at, UpdatedAt: at}},
		Events: []attendance.DatedEvent{
			{Date: "2025-03-10", Event: attendance.Event{Kind: attendance.EventCheckIn, Time: at}},
			{Date: "2025-03-10", Event: attendance.Event{Kind: attendance.EventCheckOut, Time: at.Add(time.Hour)}},
		},
	}, restoredAt)

	assert.Equal(t, DocumentVersion, doc.Version)
	assert.Equal(t, "2025-04-01T00:00:00Z", doc.BackupDate)
	assert.Nil(t, doc.ActiveShiftID)
	require.Len(t, doc.AttendanceLogs["2025-03-10"], 2)
	assert.Equal(t, "check_out", doc.AttendanceLogs["2025-03-10"][1].Kind)
	assert.NotNil(t, doc.DailyWorkStatus)
	require.NotNil(t, doc.UserSettings, "user_settings are always written")
	assert.Nil(t, doc.UserSettings.Language)
	assert.NotNil(t, doc.Notes)
}
