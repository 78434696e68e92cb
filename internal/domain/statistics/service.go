package statistics

import (
	"context"
	"io"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/attendance"
)

// StatisticsService aggregates stored daily statuses for reporting
type StatisticsService interface {
	// Summary totals hours and counts statuses over a period
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)

	// Week lays out the seven days around a date, filling gaps with pending or weekend
	Week(ctx context.Context, req WeekRequest) (WeekResponse, error)

	// ExportCSV writes one row per stored status in the range
	ExportCSV(ctx context.Context, w io.Writer, filter attendance.DateRangeFilter) error
}
