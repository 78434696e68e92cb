package attendance

import (
	"context"
)

// EventRepository stores the append-only attendance log, keyed by day.
type EventRepository interface {
	// Append adds one event at the end of the day's log
	Append(ctx context.Context, date string, event Event) error

	// ListByDate returns the day's events in insertion order
	ListByDate(ctx context.Context, date string) ([]Event, error)

	// DeleteByDate drops the whole log of a day
	DeleteByDate(ctx context.Context, date string) error

	// List returns events of all days matching filter, ordered by date then insertion
	List(ctx context.Context, filter DateRangeFilter) ([]DatedEvent, error)
}

// DailyStatusRepository stores one DailyWorkStatus per day.
type DailyStatusRepository interface {
	// Put inserts or fully replaces the record of status.Date
	Put(ctx context.Context, status DailyWorkStatus) error

	GetByDate(ctx context.Context, date string) (DailyWorkStatus, error)

	// List returns records ordered by date ascending
	List(ctx context.Context, filter DailyStatusFilter) ([]DailyWorkStatus, error)
}
