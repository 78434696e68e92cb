package attendance

import (
	"context"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/sse"
)

// TopicToday is the hub topic carrying changes of the current day.
const TopicToday = "attendance.today"

// AttendanceService drives the attendance button and the daily status engine
type AttendanceService interface {
	// Today returns the derived state of the current day
	Today(ctx context.Context) (TodayResponse, error)

	// Advance moves the button one step; COMPLETED is a no-op
	Advance(ctx context.Context) (TodayResponse, error)

	// Perform runs the requested action only if the state allows it next
	Perform(ctx context.Context, req ActionRequest) (TodayResponse, error)

	// Punch logs a punch while WORKING when the active shift enables it
	Punch(ctx context.Context) (TodayResponse, error)

	// Reset drops today's events after explicit confirmation
	Reset(ctx context.Context, req ResetRequest) (TodayResponse, error)

	// GetEvents returns the log of one day
	GetEvents(ctx context.Context, date string) ([]EventResponse, error)

	// Recalculate recomputes the status of one day with the active shift
	Recalculate(ctx context.Context, date string) (DailyStatusResponse, error)

	// SetManualStatus stores a vacation, holiday or absent status for date.
	// Finalization never overwrites it; Recalculate does.
	SetManualStatus(ctx context.Context, date string, req SetManualStatusRequest) (DailyStatusResponse, error)

	GetDailyStatus(ctx context.Context, date string) (DailyStatusResponse, error)
	ListDailyStatuses(ctx context.Context, filter DailyStatusFilter) ([]DailyStatusResponse, error)

	// Subscribe streams state changes until the returned cleanup is called
	Subscribe(ctx context.Context) (<-chan sse.Event, func())
}
