package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/statistics"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/handler/http/response"
)

type StatisticsHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	Week(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type statisticsHandlerImpl struct {
	statisticsService statistics.StatisticsService
}

func NewStatisticsHandler(statisticsService statistics.StatisticsService) StatisticsHandler {
	return &statisticsHandlerImpl{
		statisticsService: statisticsService,
	}
}

// Summary implements StatisticsHandler.
func (h *statisticsHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req := statistics.SummaryRequest{
		Period:    r.URL.Query().Get("period"),
		Date:      queryPtr(r, "date"),
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
	}
	if req.Period == "" {
		req.Period = statistics.PeriodWeek
	}

	summary, err := h.statisticsService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}

// Week implements StatisticsHandler.
func (h *statisticsHandlerImpl) Week(w http.ResponseWriter, r *http.Request) {
	req := statistics.WeekRequest{
		Date:     queryPtr(r, "date"),
		FirstDay: r.URL.Query().Get("first_day"),
	}

	week, err := h.statisticsService.Week(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, week)
}

// ExportCSV implements StatisticsHandler.
func (h *statisticsHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := attendance.DateRangeFilter{
		StartDate: queryPtr(r, "start_date"),
		EndDate:   queryPtr(r, "end_date"),
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.statisticsService.ExportCSV(r.Context(), &buf, filter); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed to write CSV export", "error", err)
	}
}
