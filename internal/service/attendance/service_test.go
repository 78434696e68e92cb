package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/attendance"
	settingsService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ict = time.FixedZone("ICT", 7*60*60)

type fixture struct {
	svc      *attendanceService.AttendanceServiceImpl
	shifts   shift.ShiftRepository
	events   attendance.EventRepository
	statuses attendance.DailyStatusRepository
	prefs    settings.SettingsService
	hub      *sse.Hub
	clock    time.Time
}

func (f *fixture) at(day, hour, min int) {
	f.clock = time.Date(2025, 3, day, hour, min, 0, 0, ict)
}

func newFixture(t *testing.T, showPunch bool) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		shifts:   sqlite.NewShiftRepository(db),
		events:   sqlite.NewEventRepository(db),
		statuses: sqlite.NewDailyStatusRepository(db),
		hub:      sse.NewHub(16),
	}
	f.at(10, 8, 30)
	f.prefs = settingsService.NewSettingsService(
		sqlite.NewSettingsRepository(db),
		settings.Default(settings.LanguageEnglish),
		func() time.Time { return f.clock },
	)

	day := shift.Shift{
		ID:                     "day",
		Name:                   "Day",
		StartTime:              "09:00",
		OfficeEndTime:          "18:00",
		EndTime:                "19:00",
		DepartureTime:          "08:30",
		DaysApplied:            []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		ShowPunch:              showPunch,
		BreakMinutes:           60,
		PenaltyRoundingMinutes: 30,
	}
	_, err = f.shifts.Create(ctx, day)
	require.NoError(t, err)
	require.NoError(t, f.shifts.SetActive(ctx, &day.ID))

	f.svc = attendanceService.NewAttendanceService(
		f.events, f.statuses, f.shifts,
		attendanceService.NewStatusCalculator(ict, "en"),
		f.prefs, f.hub, ict,
		func() time.Time { return f.clock },
	)
	return f
}

// ========================================
// ADVANCE
// ========================================

// Test Advance - Full day from GO_WORK to COMPLETED
func TestAttendanceService_Advance_FullDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	today, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", today.Date)
	assert.Equal(t, string(attendance.StateGoWork), today.State)
	require.NotNil(t, today.NextAction)
	assert.Equal(t, "depart", *today.NextAction)
	assert.Empty(t, today.Events)

	steps := []struct {
		hour, min int
		want      attendance.State
	}{
		{8, 30, attendance.StateWaitingCheckIn},
		{9, 10, attendance.StateWorking},
		{18, 5, attendance.StateReadyComplete},
		{18, 10, attendance.StateCompleted},
	}
	for _, step := range steps {
		f.at(10, step.hour, step.min)
		resp, err := f.svc.Advance(ctx)
		require.NoError(t, err)
		assert.True(t, resp.Applied)
		assert.Equal(t, string(step.want), resp.State)
	}

	resp, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp.NextAction)
	require.Len(t, resp.Events, 4)
	require.NotNil(t, resp.DailyStatus)
	assert.Equal(t, string(attendance.WorkStatusLate), resp.DailyStatus.Status)
	require.NotNil(t, resp.DailyStatus.LateMinutes)
	assert.Equal(t, 10, *resp.DailyStatus.LateMinutes)
	require.NotNil(t, resp.DailyStatus.PenaltyMinutes)
	assert.Equal(t, 30, *resp.DailyStatus.PenaltyMinutes)
	assert.Equal(t, "Late 10 min.", resp.DailyStatus.Remarks)
}

// Test Advance - COMPLETED is terminal
func TestAttendanceService_Advance_CompletedIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Advance(ctx)
		require.NoError(t, err)
	}

	resp, err := f.svc.Advance(ctx)
	require.NoError(t, err)
	assert.False(t, resp.Applied)
	assert.Equal(t, string(attendance.StateCompleted), resp.State)
	assert.Len(t, resp.Events, 4)
}

// Test Advance - No status is computed before complete
func TestAttendanceService_Advance_StatusOnlyOnComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	for i := 0; i < 3; i++ {
		_, err := f.svc.Advance(ctx)
		require.NoError(t, err)
	}

	_, err := f.statuses.GetByDate(ctx, "2025-03-10")
	assert.ErrorIs(t, err, attendance.ErrDailyStatusNotFound)
}

// Test Advance - Completing without an active shift logs the event only
func TestAttendanceService_Advance_NoActiveShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	require.NoError(t, f.shifts.SetActive(ctx, nil))

	var resp attendance.TodayResponse
	var err error
	for i := 0; i < 4; i++ {
		resp, err = f.svc.Advance(ctx)
		require.NoError(t, err)
	}

	assert.Equal(t, string(attendance.StateCompleted), resp.State)
	assert.Nil(t, resp.ShiftID)
	assert.Nil(t, resp.DailyStatus)
}

// ========================================
// PUNCH / PERFORM
// ========================================

// Test Punch - Requires WORKING and show_punch
func TestAttendanceService_Punch(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled by shift", func(t *testing.T) {
		f := newFixture(t, false)
		for i := 0; i < 2; i++ {
			_, err := f.svc.Advance(ctx)
			require.NoError(t, err)
		}

		resp, err := f.svc.Punch(ctx)
		require.NoError(t, err)
		assert.False(t, resp.Applied)
		assert.False(t, resp.CanPunch)
		assert.Len(t, resp.Events, 2)
	})

	t.Run("enabled while working", func(t *testing.T) {
		f := newFixture(t, true)

		resp, err := f.svc.Punch(ctx)
		require.NoError(t, err)
		assert.False(t, resp.Applied, "punch before check-in")

		for i := 0; i < 2; i++ {
			_, err := f.svc.Advance(ctx)
			require.NoError(t, err)
		}

		resp, err = f.svc.Punch(ctx)
		require.NoError(t, err)
		assert.True(t, resp.Applied)
		assert.True(t, resp.CanPunch)
		assert.Equal(t, string(attendance.StateWorking), resp.State)
		require.Len(t, resp.Events, 3)
		assert.Equal(t, string(attendance.EventPunch), resp.Events[2].Kind)
	})
}

// Test Perform - Only the next allowed action runs
func TestAttendanceService_Perform(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	resp, err := f.svc.Perform(ctx, attendance.ActionRequest{Action: "check_in"})
	require.NoError(t, err)
	assert.False(t, resp.Applied)
	assert.Equal(t, string(attendance.StateGoWork), resp.State)

	resp, err = f.svc.Perform(ctx, attendance.ActionRequest{Action: "depart"})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Equal(t, string(attendance.StateWaitingCheckIn), resp.State)

	_, err = f.svc.Perform(ctx, attendance.ActionRequest{Action: "teleport"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

// ========================================
// RESET
// ========================================

// Test Reset - Clears events but keeps the stored status
func TestAttendanceService_Reset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Advance(ctx)
		require.NoError(t, err)
	}

	_, err := f.svc.Reset(ctx, attendance.ResetRequest{})
	assert.ErrorIs(t, err, attendance.ErrResetNotConfirmed)

	resp, err := f.svc.Reset(ctx, attendance.ResetRequest{Confirm: true})
	require.NoError(t, err)
	assert.True(t, resp.Applied)
	assert.Equal(t, string(attendance.StateGoWork), resp.State)
	assert.Empty(t, resp.Events)
	assert.NotNil(t, resp.DailyStatus)

	events, err := f.events.ListByDate(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, events)
}

// ========================================
// RECALCULATE / FINALIZE
// ========================================

// Test Recalculate - Errors and success
func TestAttendanceService_Recalculate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.Recalculate(ctx, "10-03-2025")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Recalculate(ctx, "2025-03-09")
	assert.ErrorIs(t, err, attendance.ErrStatusNotComputed)

	require.NoError(t, f.events.Append(ctx, "2025-03-09", attendance.Event{
		Kind: attendance.EventCheckIn, Time: time.Date(2025, 3, 9, 9, 0, 0, 0, ict),
	}))
	status, err := f.svc.Recalculate(ctx, "2025-03-09")
	require.NoError(t, err)
	assert.Equal(t, string(attendance.WorkStatusMissingLogs), status.Status)
	assert.Nil(t, status.LateMinutes)

	require.NoError(t, f.shifts.SetActive(ctx, nil))
	_, err = f.svc.Recalculate(ctx, "2025-03-09")
	assert.ErrorIs(t, err, shift.ErrNoActiveShift)
}

// Test FinalizePastDays - Only past days without a status
func TestAttendanceService_FinalizePastDays(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	day := func(d, h, m int) time.Time { return time.Date(2025, 3, d, h, m, 0, 0, ict) }
	logs := []attendance.DatedEvent{
		{Date: "2025-03-06", Event: attendance.Event{Kind: attendance.EventCheckIn, Time: day(6, 9, 0)}},
		{Date: "2025-03-06", Event: attendance.Event{Kind: attendance.EventCheckOut, Time: day(6, 17, 0)}},
		{Date: "2025-03-07", Event: attendance.Event{Kind: attendance.EventDepart, Time: day(7, 8, 30)}},
		{Date: "2025-03-08", Event: attendance.Event{Kind: attendance.EventCheckIn, Time: day(8, 9, 0)}},
		{Date: "2025-03-10", Event: attendance.Event{Kind: attendance.EventDepart, Time: day(10, 8, 30)}},
	}
	for _, e := range logs {
		require.NoError(t, f.events.Append(ctx, e.Date, e.Event))
	}
	require.NoError(t, f.statuses.Put(ctx, attendance.DailyWorkStatus{
		Date: "2025-03-08", ShiftID: "day", ShiftName: "Day",
		Status: attendance.WorkStatusVacation, CalculatedAt: day(8, 20, 0),
	}))

	n, err := f.svc.FinalizePastDays(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	early, err := f.statuses.GetByDate(ctx, "2025-03-06")
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkStatusEarlyLeave, early.Status)

	missing, err := f.statuses.GetByDate(ctx, "2025-03-07")
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkStatusMissingLogs, missing.Status)

	kept, err := f.statuses.GetByDate(ctx, "2025-03-08")
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkStatusVacation, kept.Status)

	_, err = f.statuses.GetByDate(ctx, "2025-03-10")
	assert.ErrorIs(t, err, attendance.ErrDailyStatusNotFound)

	n, err = f.svc.FinalizePastDays(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// Test SetManualStatus - Stored as-is and kept by finalization
func TestAttendanceService_SetManualStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.SetManualStatus(ctx, "2025-03-07", attendance.SetManualStatusRequest{Status: "sick_leave"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, verrs.HasField("status"))

	_, err = f.svc.SetManualStatus(ctx, "07/03/2025", attendance.SetManualStatusRequest{Status: "vacation"})
	assert.ErrorAs(t, err, &verrs)

	require.NoError(t, f.events.Append(ctx, "2025-03-07", attendance.Event{
		Kind: attendance.EventDepart, Time: time.Date(2025, 3, 7, 8, 30, 0, 0, ict),
	}))

	remarks := "Annual leave"
	got, err := f.svc.SetManualStatus(ctx, "2025-03-07", attendance.SetManualStatusRequest{
		Status: string(attendance.WorkStatusVacation), Remarks: &remarks,
	})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.WorkStatusVacation), got.Status)
	assert.Equal(t, "day", got.ShiftID)
	assert.Equal(t, "Annual leave", got.Remarks)
	assert.Nil(t, got.LateMinutes)
	assert.Len(t, got.Events, 1)

	n, err := f.svc.FinalizePastDays(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := f.statuses.GetByDate(ctx, "2025-03-07")
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkStatusVacation, stored.Status)

	// a manual status for today is pushed to listeners
	ch, cleanup := f.svc.Subscribe(ctx)
	defer cleanup()
	_, err = f.svc.SetManualStatus(ctx, "2025-03-10", attendance.SetManualStatusRequest{Status: string(attendance.WorkStatusHoliday)})
	require.NoError(t, err)
	select {
	case ev := <-ch:
		resp, ok := ev.Data.(attendance.TodayResponse)
		require.True(t, ok)
		require.NotNil(t, resp.DailyStatus)
		assert.Equal(t, string(attendance.WorkStatusHoliday), resp.DailyStatus.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a state_changed event")
	}
}

// ========================================
// SETTINGS
// ========================================

// Test remarks and button mode follow the saved settings
func TestAttendanceService_FollowsSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	today, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ButtonModeFull, today.ButtonMode)

	day := func(h, m int) time.Time { return time.Date(2025, 3, 7, h, m, 0, 0, ict) }
	require.NoError(t, f.events.Append(ctx, "2025-03-07", attendance.Event{Kind: attendance.EventCheckIn, Time: day(9, 40)}))
	require.NoError(t, f.events.Append(ctx, "2025-03-07", attendance.Event{Kind: attendance.EventCheckOut, Time: day(18, 0)}))

	status, err := f.svc.Recalculate(ctx, "2025-03-07")
	require.NoError(t, err)
	assert.Contains(t, status.Remarks, "Late")

	_, err = f.prefs.Update(ctx, settings.UpdateSettingsRequest{
		Language:        ptr(settings.LanguageVietnamese),
		MultiButtonMode: ptr(settings.ButtonModeSimple),
	})
	require.NoError(t, err)

	status, err = f.svc.Recalculate(ctx, "2025-03-07")
	require.NoError(t, err)
	assert.Contains(t, status.Remarks, "Đi muộn")

	today, err = f.svc.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ButtonModeSimple, today.ButtonMode)
}

func ptr[T any](v T) *T { return &v }

// ========================================
// QUERIES / STREAM
// ========================================

// Test GetDailyStatus and ListDailyStatuses
func TestAttendanceService_DailyStatusQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	_, err := f.svc.GetDailyStatus(ctx, "2025-03-10")
	assert.ErrorIs(t, err, attendance.ErrDailyStatusNotFound)

	for i := 0; i < 4; i++ {
		_, err := f.svc.Advance(ctx)
		require.NoError(t, err)
	}

	got, err := f.svc.GetDailyStatus(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "day", got.ShiftID)

	bad := "nope"
	_, err = f.svc.ListDailyStatuses(ctx, attendance.DailyStatusFilter{Status: &bad})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	list, err := f.svc.ListDailyStatuses(ctx, attendance.DailyStatusFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	events, err := f.svc.GetEvents(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

// Test Subscribe - Applied transitions are published, no-ops are not
func TestAttendanceService_Subscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	ch, cleanup := f.svc.Subscribe(ctx)
	defer cleanup()

	_, err := f.svc.Advance(ctx)
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, "state_changed", ev.Event)
		resp, ok := ev.Data.(attendance.TodayResponse)
		require.True(t, ok)
		assert.Equal(t, string(attendance.StateWaitingCheckIn), resp.State)
	case <-time.After(time.Second):
		t.Fatal("expected a state_changed event")
	}

	_, err = f.svc.Punch(ctx)
	require.NoError(t, err)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q", ev.Event)
	default:
	}
}
