package note

import "time"

// Note is a reminder text tied to shifts or to explicit weekdays.
type Note struct {
	ID                   string
	Title                string
	Content              string
	ReminderTime         string // HH:MM
	AssociatedShiftIDs   []string
	ExplicitReminderDays []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
