package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Shift is a configured work schedule. The attendance engine only reads it.
type Shift struct {
	ID                     string
	Name                   string
	StartTime              string // HH:MM
	OfficeEndTime          string // HH:MM
	EndTime                string // HH:MM
	DepartureTime          string // HH:MM
	DaysApplied            []string
	RemindBeforeStart      int
	RemindAfterEnd         int
	ShowPunch              bool
	BreakMinutes           int
	PenaltyRoundingMinutes int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// AppliesOn reports whether the shift is scheduled on the weekday of t.
func (s Shift) AppliesOn(t time.Time) bool {
	name := WeekDayOf(t.Weekday())
	for _, d := range s.DaysApplied {
		if d == name {
			return true
		}
	}
	return false
}

const (
	Monday    = "Mon"
	Tuesday   = "Tue"
	Wednesday = "Wed"
	Thursday  = "Thu"
	Friday    = "Fri"
	Saturday  = "Sat"
	Sunday    = "Sun"
)

var WeekDayValues = []string{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func WeekDayOf(d time.Weekday) string {
	switch d {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// Clock is a wall-clock time of day without date or zone.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" value.
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock to the calendar day of date in loc.
func (c Clock) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, loc)
}
