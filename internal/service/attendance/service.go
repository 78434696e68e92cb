package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.EventRepository
	attendance.DailyStatusRepository
	shift.ShiftRepository
	calculator *StatusCalculator
	settings   settings.SettingsService
	hub        *sse.Hub
	loc        *time.Location
	now        func() time.Time

	// every mutation of the log or the status map goes through mu
	mu sync.Mutex
}

func NewAttendanceService(
	eventRepo attendance.EventRepository,
	statusRepo attendance.DailyStatusRepository,
	shiftRepo shift.ShiftRepository,
	calculator *StatusCalculator,
	settingsService settings.SettingsService,
	hub *sse.Hub,
	loc *time.Location,
	now func() time.Time,
) *AttendanceServiceImpl {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		EventRepository:       eventRepo,
		DailyStatusRepository: statusRepo,
		ShiftRepository:       shiftRepo,
		calculator:            calculator,
		settings:              settingsService,
		hub:                   hub,
		loc:                   loc,
		now:                   now,
	}
}

func (a *AttendanceServiceImpl) today() (string, time.Time) {
	now := a.now().In(a.loc)
	return now.Format(attendance.DateLayout), now
}

// preferences returns the saved settings. Without a settings service, or when
// they cannot be read, the calculator's language and default modes apply.
func (a *AttendanceServiceImpl) preferences(ctx context.Context) settings.Settings {
	fallback := settings.Default(a.calculator.language)
	if a.settings == nil {
		return fallback
	}
	prefs, err := a.settings.Current(ctx)
	if err != nil {
		slog.Warn("Error reading settings, using defaults", "error", err)
		return fallback
	}
	return prefs
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	date, _ := a.today()

	activeShift, err := a.ShiftRepository.GetActive(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	events, err := a.EventRepository.ListByDate(ctx, date)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's events: %w", err)
	}

	return a.buildToday(ctx, date, events, activeShift, false)
}

// Advance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Advance(ctx context.Context) (attendance.TodayResponse, error) {
	return a.run(ctx, func(s attendance.State, opts attendance.TransitionOptions) attendance.Transition {
		return attendance.Apply(s, attendance.CommandAdvance, opts)
	})
}

// Perform implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Perform(ctx context.Context, req attendance.ActionRequest) (attendance.TodayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TodayResponse{}, err
	}
	action := attendance.EventKind(req.Action)

	return a.run(ctx, func(s attendance.State, opts attendance.TransitionOptions) attendance.Transition {
		return attendance.ApplyAction(s, action, opts)
	})
}

// Punch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Punch(ctx context.Context) (attendance.TodayResponse, error) {
	return a.run(ctx, func(s attendance.State, opts attendance.TransitionOptions) attendance.Transition {
		return attendance.Apply(s, attendance.CommandPunch, opts)
	})
}

// Reset implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reset(ctx context.Context, req attendance.ResetRequest) (attendance.TodayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.TodayResponse{}, err
	}

	return a.run(ctx, func(s attendance.State, opts attendance.TransitionOptions) attendance.Transition {
		return attendance.Apply(s, attendance.CommandReset, opts)
	})
}

// run loads today's log, derives the state, applies the transition chosen by
// decide and persists its effects.
func (a *AttendanceServiceImpl) run(
	ctx context.Context,
	decide func(attendance.State, attendance.TransitionOptions) attendance.Transition,
) (attendance.TodayResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	date, now := a.today()

	activeShift, err := a.ShiftRepository.GetActive(ctx)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	events, err := a.EventRepository.ListByDate(ctx, date)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's events: %w", err)
	}

	opts := attendance.TransitionOptions{}
	if activeShift != nil {
		opts.ShowPunch = activeShift.ShowPunch
	}

	transition := decide(attendance.DeriveState(events), opts)

	if transition.ClearDay {
		if err := a.EventRepository.DeleteByDate(ctx, date); err != nil {
			return attendance.TodayResponse{}, fmt.Errorf("failed to reset today's events: %w", err)
		}
		events = nil
		slog.Info("Attendance log reset", "date", date, "from", transition.From)
	}

	if transition.Append != nil {
		event := attendance.Event{Kind: *transition.Append, Time: now}
		if err := a.EventRepository.Append(ctx, date, event); err != nil {
			return attendance.TodayResponse{}, fmt.Errorf("failed to append %s event: %w", event.Kind, err)
		}
		events = append(events, event)
		slog.Debug("Attendance event appended", "date", date, "kind", event.Kind, "state", transition.Next)
	}

	if transition.Recalculate {
		a.calculateDailyStatus(ctx, date, events, activeShift, now)
	}

	resp, err := a.buildToday(ctx, date, events, activeShift, transition.Applied())
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	if transition.Applied() && a.hub != nil {
		a.hub.Publish(attendance.TopicToday, sse.Event{Event: "state_changed", Data: resp})
	}

	return resp, nil
}

// calculateDailyStatus runs the calculator and stores its result. Faults are
// logged and leave any previous status of the day untouched.
func (a *AttendanceServiceImpl) calculateDailyStatus(
	ctx context.Context,
	date string,
	events []attendance.Event,
	activeShift *shift.Shift,
	now time.Time,
) (attendance.DailyWorkStatus, bool) {
	calculator := a.calculator.WithLanguage(a.preferences(ctx).Language)
	status, ok, err := calculator.Calculate(date, events, activeShift, now)
	if err != nil {
		slog.Error("Error calculating daily status", "date", date, "error", err)
		return attendance.DailyWorkStatus{}, false
	}
	if !ok {
		return attendance.DailyWorkStatus{}, false
	}

	if err := a.DailyStatusRepository.Put(ctx, status); err != nil {
		slog.Error("Error saving daily status", "date", date, "error", err)
		return attendance.DailyWorkStatus{}, false
	}

	slog.Info("Daily status calculated", "date", date, "status", status.Status, "shift_id", status.ShiftID)
	return status, true
}

func (a *AttendanceServiceImpl) buildToday(
	ctx context.Context,
	date string,
	events []attendance.Event,
	activeShift *shift.Shift,
	applied bool,
) (attendance.TodayResponse, error) {
	state := attendance.DeriveState(events)

	resp := attendance.TodayResponse{
		Date:       date,
		State:      string(state),
		Applied:    applied,
		ButtonMode: a.preferences(ctx).MultiButtonMode,
		Events:     attendance.MapEvents(events),
	}

	if next, ok := attendance.NextEvent(state); ok {
		action := string(next)
		resp.NextAction = &action
	}

	if activeShift != nil {
		resp.ShiftID = &activeShift.ID
		resp.ShiftName = &activeShift.Name
		resp.CanPunch = state == attendance.StateWorking && activeShift.ShowPunch
	}

	status, err := a.DailyStatusRepository.GetByDate(ctx, date)
	switch {
	case err == nil:
		mapped := attendance.MapDailyStatus(status)
		resp.DailyStatus = &mapped
	case !errors.Is(err, attendance.ErrDailyStatusNotFound):
		return attendance.TodayResponse{}, fmt.Errorf("failed to get daily status: %w", err)
	}

	return resp, nil
}

// GetEvents implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetEvents(ctx context.Context, date string) ([]attendance.EventResponse, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	events, err := a.EventRepository.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return attendance.MapEvents(events), nil
}

// Recalculate implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Recalculate(ctx context.Context, date string) (attendance.DailyStatusResponse, error) {
	if err := validateDate(date); err != nil {
		return attendance.DailyStatusResponse{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	activeShift, err := a.ShiftRepository.GetActive(ctx)
	if err != nil {
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}
	if activeShift == nil {
		return attendance.DailyStatusResponse{}, shift.ErrNoActiveShift
	}

	events, err := a.EventRepository.ListByDate(ctx, date)
	if err != nil {
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to get events: %w", err)
	}

	_, now := a.today()
	status, ok := a.calculateDailyStatus(ctx, date, events, activeShift, now)
	if !ok {
		return attendance.DailyStatusResponse{}, attendance.ErrStatusNotComputed
	}

	if today, _ := a.today(); today == date && a.hub != nil {
		if resp, err := a.buildToday(ctx, date, events, activeShift, true); err == nil {
			a.hub.Publish(attendance.TopicToday, sse.Event{Event: "state_changed", Data: resp})
		}
	}

	return attendance.MapDailyStatus(status), nil
}

// FinalizePastDays computes a status for every day of the last lookback days
// (today excluded) that has events but no stored status. It returns how many
// days received a status.
func (a *AttendanceServiceImpl) FinalizePastDays(ctx context.Context, lookback int) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	activeShift, err := a.ShiftRepository.GetActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get active shift: %w", err)
	}
	if activeShift == nil {
		return 0, nil
	}

	today, now := a.today()
	from := now.AddDate(0, 0, -lookback).Format(attendance.DateLayout)
	to := now.AddDate(0, 0, -1).Format(attendance.DateLayout)

	dated, err := a.EventRepository.List(ctx, attendance.DateRangeFilter{StartDate: &from, EndDate: &to})
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}

	byDate := make(map[string][]attendance.Event)
	var dates []string
	for _, e := range dated {
		if e.Date == today {
			continue
		}
		if _, seen := byDate[e.Date]; !seen {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e.Event)
	}

	finalized := 0
	for _, date := range dates {
		_, err := a.DailyStatusRepository.GetByDate(ctx, date)
		if err == nil {
			continue
		}
		if !errors.Is(err, attendance.ErrDailyStatusNotFound) {
			return finalized, fmt.Errorf("failed to get daily status: %w", err)
		}
		if _, ok := a.calculateDailyStatus(ctx, date, byDate[date], activeShift, now); ok {
			finalized++
		}
	}

	return finalized, nil
}

// SetManualStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) SetManualStatus(ctx context.Context, date string, req attendance.SetManualStatusRequest) (attendance.DailyStatusResponse, error) {
	if err := validateDate(date); err != nil {
		return attendance.DailyStatusResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.DailyStatusResponse{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	activeShift, err := a.ShiftRepository.GetActive(ctx)
	if err != nil {
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to get active shift: %w", err)
	}

	events, err := a.EventRepository.ListByDate(ctx, date)
	if err != nil {
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to get events: %w", err)
	}

	today, now := a.today()
	status := attendance.DailyWorkStatus{
		Date:         date,
		Status:       attendance.WorkStatus(req.Status),
		Events:       events,
		CalculatedAt: now,
	}
	if req.Remarks != nil {
		status.Remarks = *req.Remarks
	}
	if activeShift != nil {
		status.ShiftID = activeShift.ID
		status.ShiftName = activeShift.Name
	}

	if err := a.DailyStatusRepository.Put(ctx, status); err != nil {
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to save daily status: %w", err)
	}
	slog.Info("Daily status set manually", "date", date, "status", status.Status)

	if today == date && a.hub != nil {
		if resp, err := a.buildToday(ctx, date, events, activeShift, true); err == nil {
			a.hub.Publish(attendance.TopicToday, sse.Event{Event: "state_changed", Data: resp})
		}
	}

	return attendance.MapDailyStatus(status), nil
}

// GetDailyStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyStatus(ctx context.Context, date string) (attendance.DailyStatusResponse, error) {
	if err := validateDate(date); err != nil {
		return attendance.DailyStatusResponse{}, err
	}

	status, err := a.DailyStatusRepository.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, attendance.ErrDailyStatusNotFound) {
			return attendance.DailyStatusResponse{}, attendance.ErrDailyStatusNotFound
		}
		return attendance.DailyStatusResponse{}, fmt.Errorf("failed to get daily status: %w", err)
	}
	return attendance.MapDailyStatus(status), nil
}

// ListDailyStatuses implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListDailyStatuses(ctx context.Context, filter attendance.DailyStatusFilter) ([]attendance.DailyStatusResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	statuses, err := a.DailyStatusRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily statuses: %w", err)
	}

	responses := make([]attendance.DailyStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		responses = append(responses, attendance.MapDailyStatus(s))
	}
	return responses, nil
}

// Subscribe implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Subscribe(ctx context.Context) (<-chan sse.Event, func()) {
	return a.hub.Subscribe(attendance.TopicToday)
}

func validateDate(date string) error {
	if _, ok := validator.IsValidDate(date); !ok {
		return validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}
	return nil
}
