package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
)

// StatusCalculator turns a day's check-in/check-out pair and a shift into a
// classified DailyWorkStatus. It is pure: identical inputs give identical output.
type StatusCalculator struct {
	loc      *time.Location
	language string
}

func NewStatusCalculator(loc *time.Location, language string) *StatusCalculator {
	if loc == nil {
		loc = time.Local
	}
	return &StatusCalculator{loc: loc, language: language}
}

// WithLanguage returns a calculator writing remarks in language. An empty
// language keeps the current one.
func (c *StatusCalculator) WithLanguage(language string) *StatusCalculator {
	if language == "" || language == c.language {
		return c
	}
	return &StatusCalculator{loc: c.loc, language: language}
}

// Calculate computes the status of date. ok is false when there is nothing to
// compute (no shift or no events); err reports malformed input, in which case
// the caller must keep whatever status it already has.
func (c *StatusCalculator) Calculate(
	date string,
	events []attendance.Event,
	activeShift *shift.Shift,
	calculatedAt time.Time,
) (result attendance.DailyWorkStatus, ok bool, err error) {
	if activeShift == nil || len(events) == 0 {
		return attendance.DailyWorkStatus{}, false, nil
	}

	day, err := time.ParseInLocation(attendance.DateLayout, date, c.loc)
	if err != nil {
		return attendance.DailyWorkStatus{}, false, fmt.Errorf("parse date %q: %w", date, err)
	}

	result = attendance.DailyWorkStatus{
		Date:         date,
		ShiftID:      activeShift.ID,
		ShiftName:    activeShift.Name,
		Events:       append([]attendance.Event(nil), events...),
		CalculatedAt: calculatedAt,
	}

	checkIn, hasCheckIn := attendance.FirstOf(events, attendance.EventCheckIn)
	checkOut, hasCheckOut := attendance.FirstOf(events, attendance.EventCheckOut)
	if !hasCheckIn || !hasCheckOut {
		result.Status = attendance.WorkStatusMissingLogs
		return result, true, nil
	}

	if activeShift.PenaltyRoundingMinutes <= 0 {
		return attendance.DailyWorkStatus{}, false, attendance.ErrInvalidRounding
	}

	start, err := shift.ParseClock(activeShift.StartTime)
	if err != nil {
		return attendance.DailyWorkStatus{}, false, fmt.Errorf("start time: %w", err)
	}
	officeEndClock, err := shift.ParseClock(activeShift.OfficeEndTime)
	if err != nil {
		return attendance.DailyWorkStatus{}, false, fmt.Errorf("office end time: %w", err)
	}
	endClock, err := shift.ParseClock(activeShift.EndTime)
	if err != nil {
		return attendance.DailyWorkStatus{}, false, fmt.Errorf("end time: %w", err)
	}

	shiftStart, officeEnd, shiftEnd := c.Anchor(day, start, officeEndClock, endClock)

	in := checkIn.Time
	out := checkOut.Time

	lateMinutes := max(0, floorMinutes(in.Sub(shiftStart)))
	earlyMinutes := max(0, floorMinutes(officeEnd.Sub(out)))

	rounding := activeShift.PenaltyRoundingMinutes
	infraction := lateMinutes + earlyMinutes
	penaltyMinutes := (infraction + rounding - 1) / rounding * rounding

	// not clamped: a check-out before check-in yields a negative gross
	grossHours := out.Sub(in).Hours()
	totalHours := math.Max(0, grossHours-float64(activeShift.BreakMinutes)/60-float64(penaltyMinutes)/60)
	otHours := math.Max(0, out.Sub(officeEnd).Hours())

	breakMinutes := activeShift.BreakMinutes

	result.Status = classify(lateMinutes, earlyMinutes)
	result.Remarks = c.remarks(lateMinutes, earlyMinutes)
	result.CheckInTime = &in
	result.CheckOutTime = &out
	result.ShiftStartTime = &shiftStart
	result.OfficeEndTime = &officeEnd
	result.ShiftEndTime = &shiftEnd
	result.LateMinutes = &lateMinutes
	result.EarlyMinutes = &earlyMinutes
	result.PenaltyMinutes = &penaltyMinutes
	result.BreakMinutesConfig = &breakMinutes
	result.GrossHours = &grossHours
	result.TotalHours = &totalHours
	result.OTHours = &otHours

	return result, true, nil
}

// Anchor places the shift clocks on day. Office-end and end move to the next
// day when their hour is numerically below the start hour; minutes are not
// compared, so a shift whose start and office-end share an hour is never
// treated as overnight.
func (c *StatusCalculator) Anchor(day time.Time, start, officeEnd, end shift.Clock) (time.Time, time.Time, time.Time) {
	shiftStart := start.On(day, c.loc)
	officeEndAt := officeEnd.On(day, c.loc)
	shiftEndAt := end.On(day, c.loc)

	if officeEnd.Hour < start.Hour {
		officeEndAt = officeEndAt.Add(24 * time.Hour)
	}
	if end.Hour < start.Hour {
		shiftEndAt = shiftEndAt.Add(24 * time.Hour)
	}

	return shiftStart, officeEndAt, shiftEndAt
}

func floorMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes()))
}

func classify(lateMinutes, earlyMinutes int) attendance.WorkStatus {
	switch {
	case lateMinutes > 0 && earlyMinutes > 0:
		return attendance.WorkStatusLateAndEarly
	case lateMinutes > 0:
		return attendance.WorkStatusLate
	case earlyMinutes > 0:
		return attendance.WorkStatusEarlyLeave
	default:
		return attendance.WorkStatusCompleted
	}
}

func (c *StatusCalculator) remarks(lateMinutes, earlyMinutes int) string {
	lateFormat, earlyFormat := "Đi muộn %d phút. ", "Về sớm %d phút."
	if c.language == "en" {
		lateFormat, earlyFormat = "Late %d min. ", "Left early %d min."
	}

	var b strings.Builder
	if lateMinutes > 0 {
		fmt.Fprintf(&b, lateFormat, lateMinutes)
	}
	if earlyMinutes > 0 {
		fmt.Fprintf(&b, earlyFormat, earlyMinutes)
	}
	return strings.TrimSpace(b.String())
}
