package backup

import (
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
)

// DocumentVersion is written into every exported document.
const DocumentVersion = 1

// Snapshot is the complete persisted state of the engine. Settings is nil
// when they have never been saved.
type Snapshot struct {
	Shifts        []shift.Shift
	ActiveShiftID *string
	Events        []attendance.DatedEvent
	DailyStatuses []attendance.DailyWorkStatus
	Notes         []note.Note
	Settings      *settings.Settings
}
