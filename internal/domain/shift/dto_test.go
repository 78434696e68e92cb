package shift

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() CreateShiftRequest {
	return CreateShiftRequest{
		Name:                   "  Day  ",
		StartTime:              "09:00",
		OfficeEndTime:          "18:00",
		EndTime:                "19:00",
		DepartureTime:          "08:30",
		DaysApplied:            []string{"Mon", "Tue"},
		BreakMinutes:           60,
		PenaltyRoundingMinutes: 30,
	}
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs), "expected validation errors, got %v", err)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

// Test CreateShiftRequest.Validate - Success
func TestCreateShiftRequest_Validate_Success(t *testing.T) {
	req := validRequest()
	require.NoError(t, req.Validate())
	assert.Equal(t, "Day", req.Name)

	night := validRequest()
	night.StartTime, night.OfficeEndTime, night.EndTime, night.DepartureTime = "22:00", "06:00", "07:00", "21:30"
	assert.NoError(t, night.Validate())

	noOvertime := validRequest()
	noOvertime.EndTime = "18:00"
	assert.NoError(t, noOvertime.Validate())
}

// Test CreateShiftRequest.Validate - Field and boundary failures
func TestCreateShiftRequest_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CreateShiftRequest)
		field  string
	}{
		{"blank name", func(r *CreateShiftRequest) { r.Name = "   " }, "name"},
		{"bad clock", func(r *CreateShiftRequest) { r.StartTime = "9:00" }, "start_time"},
		{"hour out of range", func(r *CreateShiftRequest) { r.EndTime = "24:00" }, "end_time"},
		{"no days", func(r *CreateShiftRequest) { r.DaysApplied = nil }, "days_applied"},
		{"unknown day", func(r *CreateShiftRequest) { r.DaysApplied = []string{"Monday"} }, "days_applied[0]"},
		{"zero rounding", func(r *CreateShiftRequest) { r.PenaltyRoundingMinutes = 0 }, "penalty_rounding_minutes"},
		{"negative break", func(r *CreateShiftRequest) { r.BreakMinutes = -1 }, "break_minutes"},
		{"departure too close", func(r *CreateShiftRequest) { r.DepartureTime = "08:58" }, "departure_time"},
		{"departure equals start", func(r *CreateShiftRequest) { r.DepartureTime = "09:00" }, "departure_time"},
		{"short office hours", func(r *CreateShiftRequest) { r.OfficeEndTime = "10:00" }, "office_end_time"},
		{"same hour office end", func(r *CreateShiftRequest) {
			r.StartTime, r.OfficeEndTime, r.DepartureTime = "09:30", "09:10", "09:00"
		}, "office_end_time"},
		{"end before office end", func(r *CreateShiftRequest) { r.EndTime = "17:00" }, "end_time"},
		{"short overtime window", func(r *CreateShiftRequest) { r.EndTime = "18:10" }, "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			assert.Contains(t, fieldsOf(t, req.Validate()), tt.field)
		})
	}
}

// Test UpdateShiftRequest.Validate - id is required
func TestUpdateShiftRequest_Validate(t *testing.T) {
	req := UpdateShiftRequest{CreateShiftRequest: validRequest()}
	assert.Equal(t, []string{"id"}, fieldsOf(t, req.Validate()))

	req.ID = "abc"
	assert.NoError(t, req.Validate())
}

// Test ParseClock
func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 7, Minute: 5}, c)
	assert.Equal(t, 425, c.Minutes())
	assert.Equal(t, "07:05", c.String())

	for _, bad := range []string{"", "7:05", "07:5", "24:00", "12:60", "ab:cd", "0705"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

// Test AppliesOn
func TestShift_AppliesOn(t *testing.T) {
	s := Shift{DaysApplied: []string{Monday, Sunday}}
	assert.True(t, s.AppliesOn(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))
	assert.False(t, s.AppliesOn(time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)))
	assert.True(t, s.AppliesOn(time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC)))
}
