package backup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

// Document is the JSON backup format. Logs and statuses are keyed by
// YYYY-MM-DD. UserSettings is required on restore; fields it leaves out take
// their default values.
type Document struct {
	Version         int                                       `json:"version"`
	BackupDate      string                                    `json:"backup_date"`
	Shifts          []ShiftRecord                             `json:"shifts"`
	ActiveShiftID   *string                                   `json:"active_shift_id"`
	AttendanceLogs  map[string][]attendance.EventResponse     `json:"attendance_logs"`
	DailyWorkStatus map[string]attendance.DailyStatusResponse `json:"daily_work_status"`
	UserSettings    *settings.UpdateSettingsRequest           `json:"user_settings"`
	Notes           []note.NoteResponse                       `json:"notes"`
}

type ShiftRecord struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
	shift.CreateShiftRequest
}

type RestoreResponse struct {
	Shifts        int     `json:"shifts"`
	ActiveShiftID *string `json:"active_shift_id"`
	Days          int     `json:"days"`
	Events        int     `json:"events"`
	DailyStatuses int     `json:"daily_statuses"`
	Notes         int     `json:"notes"`
}

// NewDocument renders a snapshot as a backup document.
func NewDocument(s Snapshot, backupDate time.Time) Document {
	doc := Document{
		Version:         DocumentVersion,
		BackupDate:      backupDate.UTC().Format(time.RFC3339),
		Shifts:          make([]ShiftRecord, 0, len(s.Shifts)),
		ActiveShiftID:   s.ActiveShiftID,
		AttendanceLogs:  make(map[string][]attendance.EventResponse),
		DailyWorkStatus: make(map[string]attendance.DailyStatusResponse),
		UserSettings:    &settings.UpdateSettingsRequest{},
		Notes:           make([]note.NoteResponse, 0, len(s.Notes)),
	}

	if s.Settings != nil {
		doc.UserSettings = settings.NewUpdateRequest(*s.Settings)
	}

	for _, sh := range s.Shifts {
		doc.Shifts = append(doc.Shifts, ShiftRecord{
			ID:        sh.ID,
			CreatedAt: sh.CreatedAt.UTC().Format(time.RFC3339Nano),
			UpdatedAt: sh.UpdatedAt.UTC().Format(time.RFC3339Nano),
			CreateShiftRequest: shift.CreateShiftRequest{
				Name:                   sh.Name,
				StartTime:              sh.StartTime,
				OfficeEndTime:          sh.OfficeEndTime,
				EndTime:                sh.EndTime,
				DepartureTime:          sh.DepartureTime,
				DaysApplied:            sh.DaysApplied,
				RemindBeforeStart:      sh.RemindBeforeStart,
				RemindAfterEnd:         sh.RemindAfterEnd,
				ShowPunch:              sh.ShowPunch,
				BreakMinutes:           sh.BreakMinutes,
				PenaltyRoundingMinutes: sh.PenaltyRoundingMinutes,
			},
		})
	}

	for _, e := range s.Events {
		doc.AttendanceLogs[e.Date] = append(doc.AttendanceLogs[e.Date], attendance.MapEvents([]attendance.Event{e.Event})...)
	}

	for _, st := range s.DailyStatuses {
		doc.DailyWorkStatus[st.Date] = attendance.MapDailyStatus(st)
	}

	for _, n := range s.Notes {
		doc.Notes = append(doc.Notes, note.MapNote(n))
	}

	return doc
}

// Validate checks the document without converting it.
func (d *Document) Validate() error {
	_, err := d.ToSnapshot(time.Now())
	return err
}

// ToSnapshot validates the document and converts it to a Snapshot. Shifts
// without timestamps are stamped with now.
func (d *Document) ToSnapshot(now time.Time) (Snapshot, error) {
	if d.Shifts == nil {
		return Snapshot{}, fmt.Errorf("%w: shifts are missing", ErrInvalidBackup)
	}
	if d.UserSettings == nil {
		return Snapshot{}, fmt.Errorf("%w: user_settings are missing", ErrInvalidBackup)
	}
	if d.Version != 0 && d.Version != DocumentVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}

	var errs validator.ValidationErrors
	snapshot := Snapshot{ActiveShiftID: d.ActiveShiftID}

	ids := make(map[string]bool)
	names := make(map[string]bool)
	for i, rec := range d.Shifts {
		prefix := fmt.Sprintf("shifts[%d]", i)

		if validator.IsEmpty(rec.ID) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".id", Message: "id is required"})
		} else if ids[rec.ID] {
			errs = append(errs, validator.ValidationError{Field: prefix + ".id", Message: "id is duplicated"})
		}
		ids[rec.ID] = true

		req := rec.CreateShiftRequest
		if err := req.Validate(); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return Snapshot{}, err
			}
			for _, fe := range fieldErrs {
				errs = append(errs, validator.ValidationError{Field: prefix + "." + fe.Field, Message: fe.Message})
			}
			continue
		}

		key := strings.ToLower(req.Name)
		if names[key] {
			errs = append(errs, validator.ValidationError{Field: prefix + ".name", Message: "name is duplicated"})
		}
		names[key] = true

		createdAt := parseTimeOr(rec.CreatedAt, now)
		snapshot.Shifts = append(snapshot.Shifts, shift.Shift{
			ID:                     rec.ID,
			Name:                   req.Name,
			StartTime:              req.StartTime,
			OfficeEndTime:          req.OfficeEndTime,
			EndTime:                req.EndTime,
			DepartureTime:          req.DepartureTime,
			DaysApplied:            req.DaysApplied,
			RemindBeforeStart:      req.RemindBeforeStart,
			RemindAfterEnd:         req.RemindAfterEnd,
			ShowPunch:              req.ShowPunch,
			BreakMinutes:           req.BreakMinutes,
			PenaltyRoundingMinutes: req.PenaltyRoundingMinutes,
			CreatedAt:              createdAt,
			UpdatedAt:              parseTimeOr(rec.UpdatedAt, createdAt),
		})
	}

	if d.ActiveShiftID != nil && !ids[*d.ActiveShiftID] {
		errs = append(errs, validator.ValidationError{
			Field:   "active_shift_id",
			Message: "active_shift_id does not match any shift",
		})
	}

	for _, date := range sortedKeys(d.AttendanceLogs) {
		field := "attendance_logs." + date
		if _, ok := validator.IsValidDate(date); !ok {
			errs = append(errs, validator.ValidationError{Field: field, Message: "key must be in YYYY-MM-DD format"})
			continue
		}
		for i, e := range d.AttendanceLogs[date] {
			event, err := parseEvent(e)
			if err != nil {
				errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: err.Error()})
				continue
			}
			snapshot.Events = append(snapshot.Events, attendance.DatedEvent{Date: date, Event: event})
		}
	}

	for _, date := range sortedKeys(d.DailyWorkStatus) {
		field := "daily_work_status." + date
		if _, ok := validator.IsValidDate(date); !ok {
			errs = append(errs, validator.ValidationError{Field: field, Message: "key must be in YYYY-MM-DD format"})
			continue
		}
		status, err := parseDailyStatus(date, d.DailyWorkStatus[date])
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: field, Message: err.Error()})
			continue
		}
		snapshot.DailyStatuses = append(snapshot.DailyStatuses, status)
	}

	if err := d.UserSettings.Validate(); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Snapshot{}, err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, validator.ValidationError{Field: "user_settings." + fe.Field, Message: fe.Message})
		}
	} else {
		restored := d.UserSettings.Apply(settings.Default(settings.LanguageVietnamese))
		restored.UpdatedAt = now
		snapshot.Settings = &restored
	}

	noteIDs := make(map[string]bool)
	for i, rec := range d.Notes {
		prefix := fmt.Sprintf("notes[%d]", i)

		if validator.IsEmpty(rec.ID) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".id", Message: "id is required"})
		} else if noteIDs[rec.ID] {
			errs = append(errs, validator.ValidationError{Field: prefix + ".id", Message: "id is duplicated"})
		}
		noteIDs[rec.ID] = true

		req := note.CreateNoteRequest{
			Title:                rec.Title,
			Content:              rec.Content,
			ReminderTime:         rec.ReminderTime,
			AssociatedShiftIDs:   rec.AssociatedShiftIDs,
			ExplicitReminderDays: rec.ExplicitReminderDays,
		}
		if err := req.Validate(); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return Snapshot{}, err
			}
			for _, fe := range fieldErrs {
				errs = append(errs, validator.ValidationError{Field: prefix + "." + fe.Field, Message: fe.Message})
			}
			continue
		}

		createdAt := parseTimeOr(rec.CreatedAt, now)
		snapshot.Notes = append(snapshot.Notes, note.Note{
			ID:                   rec.ID,
			Title:                req.Title,
			Content:              req.Content,
			ReminderTime:         req.ReminderTime,
			AssociatedShiftIDs:   req.AssociatedShiftIDs,
			ExplicitReminderDays: req.ExplicitReminderDays,
			CreatedAt:            createdAt,
			UpdatedAt:            parseTimeOr(rec.UpdatedAt, createdAt),
		})
	}

	if len(errs) > 0 {
		return Snapshot{}, errs
	}
	return snapshot, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func parseTimeOr(s string, fallback time.Time) time.Time {
	if t, ok := validator.IsValidDateTime(s); ok {
		return t
	}
	return fallback
}

func parseEvent(e attendance.EventResponse) (attendance.Event, error) {
	if !validator.IsInSlice(e.Kind, attendance.EventKindValues) {
		return attendance.Event{}, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	t, ok := validator.IsValidDateTime(e.Time)
	if !ok {
		return attendance.Event{}, fmt.Errorf("time %q is not an ISO-8601 timestamp", e.Time)
	}
	return attendance.Event{Kind: attendance.EventKind(e.Kind), Time: t}, nil
}

func parseDailyStatus(date string, r attendance.DailyStatusResponse) (attendance.DailyWorkStatus, error) {
	if r.Date != "" && r.Date != date {
		return attendance.DailyWorkStatus{}, fmt.Errorf("date %q does not match its key", r.Date)
	}
	if !validator.IsInSlice(r.Status, attendance.WorkStatusValues) {
		return attendance.DailyWorkStatus{}, fmt.Errorf("unknown status %q", r.Status)
	}
	calculatedAt, ok := validator.IsValidDateTime(r.CalculatedAt)
	if !ok {
		return attendance.DailyWorkStatus{}, fmt.Errorf("calculated_at %q is not an ISO-8601 timestamp", r.CalculatedAt)
	}

	status := attendance.DailyWorkStatus{
		Date:               date,
		ShiftID:            r.ShiftID,
		ShiftName:          r.ShiftName,
		Status:             attendance.WorkStatus(r.Status),
		Remarks:            r.Remarks,
		LateMinutes:        r.LateMinutes,
		EarlyMinutes:       r.EarlyMinutes,
		PenaltyMinutes:     r.PenaltyMinutes,
		BreakMinutesConfig: r.BreakMinutesConfig,
		GrossHours:         r.GrossHours,
		TotalHours:         r.TotalHours,
		OTHours:            r.OTHours,
		CalculatedAt:       calculatedAt,
	}

	times := []struct {
		name string
		in   *string
		out  **time.Time
	}{
		{"check_in_time", r.CheckInTime, &status.CheckInTime},
		{"check_out_time", r.CheckOutTime, &status.CheckOutTime},
		{"shift_start_time", r.ShiftStartTime, &status.ShiftStartTime},
		{"office_end_time", r.OfficeEndTime, &status.OfficeEndTime},
		{"shift_end_time", r.ShiftEndTime, &status.ShiftEndTime},
	}
	for _, tf := range times {
		if tf.in == nil {
			continue
		}
		t, ok := validator.IsValidDateTime(*tf.in)
		if !ok {
			return attendance.DailyWorkStatus{}, fmt.Errorf("%s %q is not an ISO-8601 timestamp", tf.name, *tf.in)
		}
		*tf.out = &t
	}

	for i, e := range r.Events {
		event, err := parseEvent(e)
		if err != nil {
			return attendance.DailyWorkStatus{}, fmt.Errorf("events[%d]: %w", i, err)
		}
		status.Events = append(status.Events, event)
	}

	return status, nil
}
