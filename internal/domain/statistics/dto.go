package statistics

import (
	"errors"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

const (
	PeriodWeek   = "week"
	PeriodMonth  = "month"
	PeriodYear   = "year"
	PeriodCustom = "custom"
)

// MaxCustomRangeDays bounds custom summaries and exports.
const MaxCustomRangeDays = 366

type SummaryRequest struct {
	Period    string  `json:"period" validate:"required,oneof=week month year custom"`
	Date      *string `json:"date,omitempty"` // anchor day for week/month/year, defaults to today
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}

	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}

	if r.Period == PeriodCustom {
		if r.StartDate == nil {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date is required for a custom period"})
		}
		if r.EndDate == nil {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date is required for a custom period"})
		}
		filter := attendance.DateRangeFilter{StartDate: r.StartDate, EndDate: r.EndDate}
		if err := filter.Validate(); err != nil {
			var rangeErrs validator.ValidationErrors
			if errors.As(err, &rangeErrs) {
				errs = append(errs, rangeErrs...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// WeekRequest selects the week containing Date. FirstDay overrides the saved
// first_day_of_week.
type WeekRequest struct {
	Date     *string `json:"date,omitempty"`
	FirstDay string  `json:"first_day,omitempty" validate:"omitempty,oneof=Mon Sun"`
}

func (r *WeekRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if r.Date != nil {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	Period         string                           `json:"period"`
	StartDate      string                           `json:"start_date"`
	EndDate        string                           `json:"end_date"`
	TotalWorkHours float64                          `json:"total_work_hours"`
	TotalOTHours   float64                          `json:"total_ot_hours"`
	WorkDays       int                              `json:"work_days"`
	StatusCounts   map[string]int                   `json:"status_counts"`
	Days           []attendance.DailyStatusResponse `json:"days"`
}

type WeekResponse struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	ShiftID   *string           `json:"shift_id,omitempty"`
	ShiftName *string           `json:"shift_name,omitempty"`
	Days      []WeekDayResponse `json:"days"`
}

type WeekDayResponse struct {
	Date        string                          `json:"date"`
	Weekday     string                          `json:"weekday"`
	Status      string                          `json:"status"`
	Scheduled   bool                            `json:"scheduled"`
	DailyStatus *attendance.DailyStatusResponse `json:"daily_status,omitempty"`
}
