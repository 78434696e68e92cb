package shift

import (
	"errors"
	"strings"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

const minutesPerDay = 24 * 60

// Minimum gaps enforced between shift boundaries, in minutes.
const (
	MinDepartureLeadMinutes = 5
	MinOfficeHoursMinutes   = 2 * 60
	MinOvertimeWindow       = 30
)

type CreateShiftRequest struct {
	Name                   string   `json:"name" validate:"required,max=200"`
	StartTime              string   `json:"start_time" validate:"required,clock"`
	OfficeEndTime          string   `json:"office_end_time" validate:"required,clock"`
	EndTime                string   `json:"end_time" validate:"required,clock"`
	DepartureTime          string   `json:"departure_time" validate:"required,clock"`
	DaysApplied            []string `json:"days_applied" validate:"min=1,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	RemindBeforeStart      int      `json:"remind_before_start" validate:"gte=0"`
	RemindAfterEnd         int      `json:"remind_after_end" validate:"gte=0"`
	ShowPunch              bool     `json:"show_punch"`
	BreakMinutes           int      `json:"break_minutes" validate:"gte=0"`
	PenaltyRoundingMinutes int      `json:"penalty_rounding_minutes" validate:"gt=0"`
}

func (r *CreateShiftRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateDefinition(r)
}

type UpdateShiftRequest struct {
	ID string `json:"-"`
	CreateShiftRequest
}

func (r *UpdateShiftRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := validateDefinition(&r.CreateShiftRequest); err != nil {
		return err
	}
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return nil
}

func validateDefinition(r *CreateShiftRequest) error {
	var errs validator.ValidationErrors

	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	// boundary rules only make sense once all four clocks parse
	for _, f := range []string{"start_time", "office_end_time", "end_time", "departure_time"} {
		if errs.HasField(f) {
			return errs
		}
	}

	errs = append(errs, ValidateBoundaries(r.StartTime, r.OfficeEndTime, r.EndTime, r.DepartureTime)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBoundaries checks the ordering rules between the four shift clocks.
//
// Office-end and end are placed on the timeline with the same hour-only
// overnight rule the daily calculator uses (+24h when their hour is below the
// start hour), so every accepted shift anchors to start <= office-end <= end.
func ValidateBoundaries(startTime, officeEndTime, endTime, departureTime string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	start, err1 := ParseClock(startTime)
	officeEnd, err2 := ParseClock(officeEndTime)
	end, err3 := ParseClock(endTime)
	departure, err4 := ParseClock(departureTime)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return validator.ValidationErrors{{Field: "times", Message: err.Error()}}
	}

	lead := (start.Minutes() - departure.Minutes() + minutesPerDay) % minutesPerDay
	if lead < MinDepartureLeadMinutes {
		errs = append(errs, validator.ValidationError{
			Field:   "departure_time",
			Message: "departure_time must be at least 5 minutes before start_time",
		})
	}

	officeEndOffset := AnchoredMinutes(start, officeEnd)
	endOffset := AnchoredMinutes(start, end)

	if officeEndOffset-start.Minutes() < MinOfficeHoursMinutes {
		errs = append(errs, validator.ValidationError{
			Field:   "office_end_time",
			Message: "office hours must last at least 2 hours",
		})
		return errs
	}

	if endOffset < officeEndOffset {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be at or after office_end_time",
		})
	} else if endOffset > officeEndOffset && endOffset-officeEndOffset < MinOvertimeWindow {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "overtime window after office_end_time must be at least 30 minutes",
		})
	}

	return errs
}

// AnchoredMinutes returns c as minutes from the start day's midnight, moved to
// the next day when its hour is numerically below the start hour.
func AnchoredMinutes(start, c Clock) int {
	m := c.Minutes()
	if c.Hour < start.Hour {
		m += minutesPerDay
	}
	return m
}

type SetActiveShiftRequest struct {
	ShiftID *string `json:"shift_id"`
}

type ShiftResponse struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	StartTime              string   `json:"start_time"`
	OfficeEndTime          string   `json:"office_end_time"`
	EndTime                string   `json:"end_time"`
	DepartureTime          string   `json:"departure_time"`
	DaysApplied            []string `json:"days_applied"`
	RemindBeforeStart      int      `json:"remind_before_start"`
	RemindAfterEnd         int      `json:"remind_after_end"`
	ShowPunch              bool     `json:"show_punch"`
	BreakMinutes           int      `json:"break_minutes"`
	PenaltyRoundingMinutes int      `json:"penalty_rounding_minutes"`
	IsActive               bool     `json:"is_active"`
	CreatedAt              string   `json:"created_at"`
	UpdatedAt              string   `json:"updated_at"`
}
