package statistics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/statistics"
	"github.com/teambition/rrule-go"
)

type StatisticsServiceImpl struct {
	attendance.DailyStatusRepository
	shift.ShiftRepository
	settings settings.SettingsService
	loc      *time.Location
	now      func() time.Time
}

func NewStatisticsService(
	statusRepo attendance.DailyStatusRepository,
	shiftRepo shift.ShiftRepository,
	settingsService settings.SettingsService,
	loc *time.Location,
	now func() time.Time,
) statistics.StatisticsService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &StatisticsServiceImpl{
		DailyStatusRepository: statusRepo,
		ShiftRepository:       shiftRepo,
		settings:              settingsService,
		loc:                   loc,
		now:                   now,
	}
}

// Summary implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) Summary(ctx context.Context, req statistics.SummaryRequest) (statistics.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return statistics.SummaryResponse{}, err
	}

	start, end, err := s.periodRange(req, s.weekStart(ctx, ""))
	if err != nil {
		return statistics.SummaryResponse{}, err
	}

	startDate := start.Format(attendance.DateLayout)
	endDate := end.Format(attendance.DateLayout)
	statuses, err := s.DailyStatusRepository.List(ctx, attendance.DailyStatusFilter{StartDate: &startDate, EndDate: &endDate})
	if err != nil {
		return statistics.SummaryResponse{}, fmt.Errorf("failed to list daily statuses: %w", err)
	}

	resp := statistics.SummaryResponse{
		Period:       req.Period,
		StartDate:    startDate,
		EndDate:      endDate,
		WorkDays:     len(statuses),
		StatusCounts: make(map[string]int, len(attendance.WorkStatusValues)),
		Days:         make([]attendance.DailyStatusResponse, 0, len(statuses)),
	}
	for _, status := range attendance.WorkStatusValues {
		resp.StatusCounts[status] = 0
	}

	var totalHours, otHours float64
	for _, st := range statuses {
		if st.TotalHours != nil {
			totalHours += *st.TotalHours
		}
		if st.OTHours != nil {
			otHours += *st.OTHours
		}
		resp.StatusCounts[string(st.Status)]++
		resp.Days = append(resp.Days, attendance.MapDailyStatus(st))
	}
	resp.TotalWorkHours = roundTenth(totalHours)
	resp.TotalOTHours = roundTenth(otHours)

	return resp, nil
}

// periodRange resolves the inclusive first and last day of the request.
func (s *StatisticsServiceImpl) periodRange(req statistics.SummaryRequest, firstDay time.Weekday) (time.Time, time.Time, error) {
	anchor := s.today()
	if req.Date != nil {
		anchor, _ = time.ParseInLocation(attendance.DateLayout, *req.Date, s.loc)
	}

	switch req.Period {
	case statistics.PeriodWeek:
		start := startOfWeek(anchor, firstDay)
		return start, start.AddDate(0, 0, 6), nil
	case statistics.PeriodMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, s.loc)
		return start, start.AddDate(0, 1, -1), nil
	case statistics.PeriodYear:
		start := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
		return start, time.Date(anchor.Year(), time.December, 31, 0, 0, 0, 0, s.loc), nil
	default:
		start, _ := time.ParseInLocation(attendance.DateLayout, *req.StartDate, s.loc)
		end, _ := time.ParseInLocation(attendance.DateLayout, *req.EndDate, s.loc)
		if daysBetween(start, end) >= statistics.MaxCustomRangeDays {
			return time.Time{}, time.Time{}, statistics.ErrRangeTooLong
		}
		return start, end, nil
	}
}

// weekStart resolves the first weekday of weekly views. An explicit request
// value wins over the saved settings.
func (s *StatisticsServiceImpl) weekStart(ctx context.Context, requested string) time.Weekday {
	switch requested {
	case shift.Sunday:
		return time.Sunday
	case shift.Monday:
		return time.Monday
	}
	if s.settings == nil {
		return time.Monday
	}
	prefs, err := s.settings.Current(ctx)
	if err != nil {
		slog.Warn("Error reading settings, weeks start on Monday", "error", err)
		return time.Monday
	}
	return prefs.WeekStart()
}

// Week implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) Week(ctx context.Context, req statistics.WeekRequest) (statistics.WeekResponse, error) {
	if err := req.Validate(); err != nil {
		return statistics.WeekResponse{}, err
	}

	anchor := s.today()
	if req.Date != nil {
		anchor, _ = time.ParseInLocation(attendance.DateLayout, *req.Date, s.loc)
	}
	start := startOfWeek(anchor, s.weekStart(ctx, req.FirstDay))
	end := start.AddDate(0, 0, 6)
	startDate := start.Format(attendance.DateLayout)
	endDate := end.Format(attendance.DateLayout)

	statuses, err := s.DailyStatusRepository.List(ctx, attendance.DailyStatusFilter{StartDate: &startDate, EndDate: &endDate})
	if err != nil {
		return statistics.WeekResponse{}, fmt.Errorf("failed to list daily statuses: %w", err)
	}
	stored := make(map[string]attendance.DailyWorkStatus, len(statuses))
	for _, st := range statuses {
		stored[st.Date] = st
	}

	activeShift, err := s.ShiftRepository.GetActive(ctx)
	if err != nil {
		return statistics.WeekResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	// without an active shift every day is a candidate work day
	scheduled := make(map[string]bool, 7)
	if activeShift != nil {
		scheduled, err = ScheduledDays(activeShift.DaysApplied, start, end)
		if err != nil {
			return statistics.WeekResponse{}, err
		}
	}

	resp := statistics.WeekResponse{
		StartDate: startDate,
		EndDate:   endDate,
		Days:      make([]statistics.WeekDayResponse, 0, 7),
	}
	if activeShift != nil {
		resp.ShiftID = &activeShift.ID
		resp.ShiftName = &activeShift.Name
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(attendance.DateLayout)

		entry := statistics.WeekDayResponse{
			Date:      date,
			Weekday:   shift.WeekDayOf(day.Weekday()),
			Scheduled: activeShift == nil || scheduled[date],
		}

		if st, ok := stored[date]; ok {
			mapped := attendance.MapDailyStatus(st)
			entry.Status = mapped.Status
			entry.DailyStatus = &mapped
		} else if !entry.Scheduled {
			entry.Status = string(attendance.WorkStatusWeekend)
		} else {
			entry.Status = string(attendance.WorkStatusPending)
		}

		resp.Days = append(resp.Days, entry)
	}

	return resp, nil
}

// ScheduledDays expands a weekly BYDAY rule over [start, end] and returns the
// dates (YYYY-MM-DD) on which a shift applying on days is scheduled.
func ScheduledDays(days []string, start, end time.Time) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(days) == 0 {
		return result, nil
	}

	byDay := make([]string, 0, len(days))
	for _, d := range days {
		byDay = append(byDay, strings.ToUpper(d[:2]))
	}

	opt, err := rrule.StrToROption("FREQ=WEEKLY;BYDAY=" + strings.Join(byDay, ","))
	if err != nil {
		return nil, fmt.Errorf("failed to parse applied days: %w", err)
	}
	opt.Dtstart = start

	rr, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence: %w", err)
	}

	set := rrule.Set{}
	set.RRule(rr)

	for _, occurrence := range set.Between(start, end, true) {
		result[occurrence.In(start.Location()).Format(attendance.DateLayout)] = true
	}
	return result, nil
}

var csvHeader = []string{
	"Date", "Shift", "Status", "Check In", "Check Out",
	"Late (min)", "Early (min)", "Penalty (min)",
	"Gross (h)", "Total (h)", "OT (h)", "Remarks",
}

// ExportCSV implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) ExportCSV(ctx context.Context, w io.Writer, filter attendance.DateRangeFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		start, _ := time.ParseInLocation(attendance.DateLayout, *filter.StartDate, s.loc)
		end, _ := time.ParseInLocation(attendance.DateLayout, *filter.EndDate, s.loc)
		if daysBetween(start, end) >= statistics.MaxCustomRangeDays {
			return statistics.ErrRangeTooLong
		}
	}

	statuses, err := s.DailyStatusRepository.List(ctx, attendance.DailyStatusFilter{StartDate: filter.StartDate, EndDate: filter.EndDate})
	if err != nil {
		return fmt.Errorf("failed to list daily statuses: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, st := range statuses {
		row := []string{
			st.Date,
			st.ShiftName,
			string(st.Status),
			formatClock(st.CheckInTime, s.loc),
			formatClock(st.CheckOutTime, s.loc),
			formatInt(st.LateMinutes),
			formatInt(st.EarlyMinutes),
			formatInt(st.PenaltyMinutes),
			formatHours(st.GrossHours),
			formatHours(st.TotalHours),
			formatHours(st.OTHours),
			st.Remarks,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *StatisticsServiceImpl) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
}

func startOfWeek(day time.Time, first time.Weekday) time.Time {
	offset := (int(day.Weekday()) - int(first) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func daysBetween(start, end time.Time) int {
	// calendar arithmetic in UTC ignores DST shifts in loc
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatHours(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
