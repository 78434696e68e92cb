package attendance

import (
	"time"
)

// DateLayout is the key format of a calendar day.
const DateLayout = "2006-01-02"

type EventKind string

const (
	EventDepart   EventKind = "depart"
	EventCheckIn  EventKind = "check_in"
	EventPunch    EventKind = "punch"
	EventCheckOut EventKind = "check_out"
	EventComplete EventKind = "complete"
)

var EventKindValues = []string{
	string(EventDepart),
	string(EventCheckIn),
	string(EventPunch),
	string(EventCheckOut),
	string(EventComplete),
}

// Event is an immutable attendance fact logged for a calendar day.
type Event struct {
	Kind EventKind
	Time time.Time
}

// DatedEvent is an Event together with the day it was logged under.
type DatedEvent struct {
	Date string
	Event
}

// FirstOf returns the first event of kind in log order.
func FirstOf(events []Event, kind EventKind) (Event, bool) {
	for _, e := range events {
		if e.Kind == kind {
			return e, true
		}
	}
	return Event{}, false
}

func hasKind(events []Event, kind EventKind) bool {
	_, ok := FirstOf(events, kind)
	return ok
}

type WorkStatus string

const (
	WorkStatusPending      WorkStatus = "pending"
	WorkStatusOnTheWay     WorkStatus = "on_the_way"
	WorkStatusWorking      WorkStatus = "working"
	WorkStatusCompleted    WorkStatus = "completed"
	WorkStatusMissingLogs  WorkStatus = "missing_logs"
	WorkStatusLate         WorkStatus = "late"
	WorkStatusEarlyLeave   WorkStatus = "early_leave"
	WorkStatusLateAndEarly WorkStatus = "late_and_early"
	WorkStatusAbsent       WorkStatus = "absent"
	WorkStatusHoliday      WorkStatus = "holiday"
	WorkStatusWeekend      WorkStatus = "weekend"
	WorkStatusVacation     WorkStatus = "vacation"
)

var WorkStatusValues = []string{
	string(WorkStatusPending),
	string(WorkStatusOnTheWay),
	string(WorkStatusWorking),
	string(WorkStatusCompleted),
	string(WorkStatusMissingLogs),
	string(WorkStatusLate),
	string(WorkStatusEarlyLeave),
	string(WorkStatusLateAndEarly),
	string(WorkStatusAbsent),
	string(WorkStatusHoliday),
	string(WorkStatusWeekend),
	string(WorkStatusVacation),
}

// DailyWorkStatus is the classified outcome of one calendar day. Numeric
// fields stay nil when no time arithmetic was performed (missing_logs).
type DailyWorkStatus struct {
	Date      string
	ShiftID   string
	ShiftName string
	Status    WorkStatus
	Remarks   string

	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	ShiftStartTime *time.Time
	OfficeEndTime  *time.Time
	ShiftEndTime   *time.Time

	LateMinutes        *int
	EarlyMinutes       *int
	PenaltyMinutes     *int
	BreakMinutesConfig *int
	GrossHours         *float64
	TotalHours         *float64
	OTHours            *float64

	Events       []Event
	CalculatedAt time.Time
}
