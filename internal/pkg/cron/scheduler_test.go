package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFinalizer struct {
	calls    atomic.Int32
	lookback int
	err      error
}

func (f *fakeFinalizer) FinalizePastDays(_ context.Context, lookback int) (int, error) {
	f.calls.Add(1)
	f.lookback = lookback
	return 2, f.err
}

// Test RunOnce - runs every registered job
func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var a, b int
	s.AddJob("a", time.Hour, func(context.Context) error { a++; return nil })
	s.AddJob("b", time.Hour, func(context.Context) error { b++; return errors.New("boom") })

	s.RunOnce(context.Background())

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b, "a failing job is logged, not fatal")
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

// Test Start - runs immediately and stops cleanly
func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start()
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

// Test AttendanceJobs - registers finalize_past_days with the configured lookback
func TestAttendanceJobs_FinalizePastDays(t *testing.T) {
	f := &fakeFinalizer{}
	s := NewScheduler()
	NewAttendanceJobs(f, time.Hour, 5).RegisterJobs(s)

	assert.Equal(t, []string{"finalize_past_days"}, s.Jobs())
	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 5, f.lookback)

	f.err = errors.New("db down")
	err := NewAttendanceJobs(f, time.Hour, 5).FinalizePastDays(context.Background())
	assert.ErrorContains(t, err, "db down")
}

type fakeArchiver struct {
	calls int
	err   error
}

func (f *fakeArchiver) Archive(context.Context) (string, error) {
	f.calls++
	return "backups/x.json", f.err
}

// Test BackupJobs - registers archive_backup and wraps failures
func TestBackupJobs_ArchiveBackup(t *testing.T) {
	f := &fakeArchiver{}
	s := NewScheduler()
	NewBackupJobs(f, 24*time.Hour).RegisterJobs(s)

	assert.Equal(t, []string{"archive_backup"}, s.Jobs())
	s.RunOnce(context.Background())
	assert.Equal(t, 1, f.calls)

	f.err = errors.New("disk full")
	err := NewBackupJobs(f, time.Hour).ArchiveBackup(context.Background())
	assert.ErrorContains(t, err, "failed to archive backup")
	assert.ErrorIs(t, err, f.err)
}
