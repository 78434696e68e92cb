package attendance

import (
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

// ========================================
// FILTERS
// ========================================

type DateRangeFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD, inclusive
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD, inclusive
}

func (f *DateRangeFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailyStatusFilter struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (f *DailyStatusFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = append(errs, validateRange(f.StartDate, f.EndDate)...)

	if f.Status != nil && !validator.IsInSlice(*f.Status, WorkStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a known work status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRange(start, end *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	var startDate, endDate time.Time
	var startOK, endOK bool

	if start != nil {
		if startDate, startOK = validator.IsValidDate(*start); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if end != nil {
		if endDate, endOK = validator.IsValidDate(*end); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	return errs
}

// ========================================
// REQUESTS
// ========================================

// ActionRequest asks for one specific event; it is ignored unless the
// current state allows exactly that event next.
type ActionRequest struct {
	Action string `json:"action" validate:"required,oneof=depart check_in punch check_out complete"`
}

func (r *ActionRequest) Validate() error {
	return validator.Struct(r)
}

type ResetRequest struct {
	Confirm bool `json:"confirm"`
}

func (r *ResetRequest) Validate() error {
	if !r.Confirm {
		return ErrResetNotConfirmed
	}
	return nil
}

// SetManualStatusRequest marks a day that has no computable attendance, such
// as leave or a public holiday.
type SetManualStatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=vacation holiday absent"`
	Remarks *string `json:"remarks,omitempty" validate:"omitempty,max=200"`
}

func (r *SetManualStatusRequest) Validate() error {
	return validator.Struct(r)
}

// ========================================
// RESPONSES
// ========================================

type EventResponse struct {
	Kind string `json:"kind"`
	Time string `json:"time"`
}

type TodayResponse struct {
	Date        string               `json:"date"`
	State       string               `json:"state"`
	Applied     bool                 `json:"applied"`
	NextAction  *string              `json:"next_action,omitempty"`
	CanPunch    bool                 `json:"can_punch"`
	ShiftID     *string              `json:"shift_id,omitempty"`
	ShiftName   *string              `json:"shift_name,omitempty"`
	ButtonMode  string               `json:"button_mode"`
	Events      []EventResponse      `json:"events"`
	DailyStatus *DailyStatusResponse `json:"daily_status,omitempty"`
}

type DailyStatusResponse struct {
	Date               string          `json:"date"`
	ShiftID            string          `json:"shift_id"`
	ShiftName          string          `json:"shift_name"`
	Status             string          `json:"status"`
	Remarks            string          `json:"remarks,omitempty"`
	CheckInTime        *string         `json:"check_in_time,omitempty"`
	CheckOutTime       *string         `json:"check_out_time,omitempty"`
	ShiftStartTime     *string         `json:"shift_start_time,omitempty"`
	OfficeEndTime      *string         `json:"office_end_time,omitempty"`
	ShiftEndTime       *string         `json:"shift_end_time,omitempty"`
	LateMinutes        *int            `json:"late_minutes,omitempty"`
	EarlyMinutes       *int            `json:"early_minutes,omitempty"`
	PenaltyMinutes     *int            `json:"penalty_minutes,omitempty"`
	BreakMinutesConfig *int            `json:"break_minutes_config,omitempty"`
	GrossHours         *float64        `json:"gross_hours,omitempty"`
	TotalHours         *float64        `json:"total_hours,omitempty"`
	OTHours            *float64        `json:"ot_hours,omitempty"`
	Events             []EventResponse `json:"events"`
	CalculatedAt       string          `json:"calculated_at"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}

func MapEvents(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventResponse{Kind: string(e.Kind), Time: e.Time.Format(time.RFC3339Nano)})
	}
	return out
}

// MapDailyStatus converts a DailyWorkStatus entity to its response shape
func MapDailyStatus(s DailyWorkStatus) DailyStatusResponse {
	return DailyStatusResponse{
		Date:               s.Date,
		ShiftID:            s.ShiftID,
		ShiftName:          s.ShiftName,
		Status:             string(s.Status),
		Remarks:            s.Remarks,
		CheckInTime:        timePtrToString(s.CheckInTime),
		CheckOutTime:       timePtrToString(s.CheckOutTime),
		ShiftStartTime:     timePtrToString(s.ShiftStartTime),
		OfficeEndTime:      timePtrToString(s.OfficeEndTime),
		ShiftEndTime:       timePtrToString(s.ShiftEndTime),
		LateMinutes:        s.LateMinutes,
		EarlyMinutes:       s.EarlyMinutes,
		PenaltyMinutes:     s.PenaltyMinutes,
		BreakMinutesConfig: s.BreakMinutesConfig,
		GrossHours:         s.GrossHours,
		TotalHours:         s.TotalHours,
		OTHours:            s.OTHours,
		Events:             MapEvents(s.Events),
		CalculatedAt:       s.CalculatedAt.Format(time.RFC3339Nano),
	}
}
