package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DayFinalizer computes the daily status of past days left without one
type DayFinalizer interface {
	FinalizePastDays(ctx context.Context, lookback int) (int, error)
}

type AttendanceJobs struct {
	finalizer    DayFinalizer
	interval     time.Duration
	lookbackDays int
}

func NewAttendanceJobs(finalizer DayFinalizer, interval time.Duration, lookbackDays int) *AttendanceJobs {
	return &AttendanceJobs{
		finalizer:    finalizer,
		interval:     interval,
		lookbackDays: lookbackDays,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("finalize_past_days", j.interval, j.FinalizePastDays)
}

// FinalizePastDays fills in statuses for days where the button was never completed.
func (j *AttendanceJobs) FinalizePastDays(ctx context.Context) error {
	n, err := j.finalizer.FinalizePastDays(ctx, j.lookbackDays)
	if err != nil {
		return fmt.Errorf("failed to finalize past days: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: finalized past days", "count", n, "lookback_days", j.lookbackDays)
	}
	return nil
}
