package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/backup"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/statistics"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftNameExists):
		Conflict(w, "Shift name already exists")
	case errors.Is(err, shift.ErrNoActiveShift):
		Conflict(w, "No active shift selected")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrDailyStatusNotFound):
		NotFound(w, "Daily work status not found")
	case errors.Is(err, attendance.ErrResetNotConfirmed):
		BadRequest(w, "Reset must be confirmed", nil)
	case errors.Is(err, attendance.ErrStatusNotComputed):
		Unprocessable(w, "STATUS_NOT_COMPUTED", "Daily work status could not be computed")

	// Note domain errors
	case errors.Is(err, note.ErrNoteNotFound):
		NotFound(w, "Note not found")

	// Backup domain errors
	case errors.Is(err, backup.ErrInvalidBackup), errors.Is(err, backup.ErrUnsupportedVersion):
		BadRequest(w, err.Error(), nil)

	// Statistics domain errors
	case errors.Is(err, statistics.ErrRangeTooLong):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
