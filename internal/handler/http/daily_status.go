package http

import (
	"net/http"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type DailyStatusHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)

	// Put sets a vacation, holiday or absent status by hand
	Put(w http.ResponseWriter, r *http.Request)
}

type dailyStatusHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewDailyStatusHandler(attendanceService attendance.AttendanceService) DailyStatusHandler {
	return &dailyStatusHandlerImpl{
		attendanceService: attendanceService,
	}
}

// List implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.DailyStatusFilter{
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
		Status:    queryPtr(r, "status"),
	}

	statuses, err := h.attendanceService.ListDailyStatuses(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, statuses)
}

// Get implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.GetDailyStatus(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// Recalculate implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.Recalculate(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Daily work status recalculated", status)
}

// Put implements DailyStatusHandler.
func (h *dailyStatusHandlerImpl) Put(w http.ResponseWriter, r *http.Request) {
	var req attendance.SetManualStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	status, err := h.attendanceService.SetManualStatus(r.Context(), chi.URLParam(r, "date"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Daily work status saved", status)
}
