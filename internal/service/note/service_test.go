package note_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/note"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/repository/sqlite"
	noteService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/note"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteEnv struct {
	svc   note.NoteService
	clock time.Time
}

func newNoteEnv(t *testing.T) *noteEnv {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	shifts := sqlite.NewShiftRepository(db)
	_, err = shifts.Create(context.Background(), shift.Shift{
		ID: "day", Name: "Day",
		StartTime: "09:00", OfficeEndTime: "18:00", EndTime: "19:00", DepartureTime: "08:30",
		DaysApplied: []string{"Mon"}, PenaltyRoundingMinutes: 30,
	})
	require.NoError(t, err)

	env := &noteEnv{clock: time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)}
	env.svc = noteService.NewNoteService(sqlite.NewNoteRepository(db), shifts, func() time.Time { return env.clock })
	return env
}

func request(title, reminder string) note.CreateNoteRequest {
	return note.CreateNoteRequest{
		Title:                title,
		Content:              "Remember " + title,
		ReminderTime:         reminder,
		ExplicitReminderDays: []string{"Mon"},
	}
}

// ========================================
// CRUD
// ========================================

// Test Create - Success
func TestNoteService_Create_Success(t *testing.T) {
	env := newNoteEnv(t)

	req := request("Payslip", "17:30")
	req.AssociatedShiftIDs = []string{"day"}
	created, err := env.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"day"}, created.AssociatedShiftIDs)
	assert.Equal(t, "2025-03-12T10:00:00Z", created.CreatedAt)
}

// Test Create - unknown shifts are rejected
func TestNoteService_Create_UnknownShift(t *testing.T) {
	env := newNoteEnv(t)

	req := request("Payslip", "17:30")
	req.AssociatedShiftIDs = []string{"day", "ghost"}
	_, err := env.svc.Create(context.Background(), req)

	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.HasField("associated_shift_ids[1]"))
	assert.False(t, errs.HasField("associated_shift_ids[0]"))
}

// Test Update - keeps CreatedAt and bumps UpdatedAt
func TestNoteService_Update(t *testing.T) {
	ctx := context.Background()
	env := newNoteEnv(t)

	created, err := env.svc.Create(ctx, request("Gym", "06:00"))
	require.NoError(t, err)

	env.clock = env.clock.Add(time.Hour)
	updated, err := env.svc.Update(ctx, note.UpdateNoteRequest{ID: created.ID, CreateNoteRequest: request("Gym bag", "06:15")})
	require.NoError(t, err)
	assert.Equal(t, "Gym bag", updated.Title)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "2025-03-12T11:00:00Z", updated.UpdatedAt)

	_, err = env.svc.Update(ctx, note.UpdateNoteRequest{ID: "ghost", CreateNoteRequest: request("X", "06:00")})
	assert.ErrorIs(t, err, note.ErrNoteNotFound)
}

// Test Delete and Get - not found after delete
func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()
	env := newNoteEnv(t)

	created, err := env.svc.Create(ctx, request("Gym", "06:00"))
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(ctx, created.ID))
	_, err = env.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, note.ErrNoteNotFound)
	assert.ErrorIs(t, env.svc.Delete(ctx, created.ID), note.ErrNoteNotFound)
}

// ========================================
// LIST
// ========================================

// Test List - ordered by reminder time, newest first on ties, then limited
func TestNoteService_List(t *testing.T) {
	ctx := context.Background()
	env := newNoteEnv(t)

	for _, n := range []struct{ title, reminder string }{
		{"late", "20:00"},
		{"early-old", "07:00"},
		{"early-new", "07:00"},
		{"noon", "12:00"},
	} {
		_, err := env.svc.Create(ctx, request(n.title, n.reminder))
		require.NoError(t, err)
		env.clock = env.clock.Add(time.Minute)
	}

	all, err := env.svc.List(ctx, note.NoteFilter{})
	require.NoError(t, err)
	var titles []string
	for _, n := range all {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"early-new", "early-old", "noon", "late"}, titles)

	limit := 2
	limited, err := env.svc.List(ctx, note.NoteFilter{Limit: &limit})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "early-old", limited[1].Title)

	zero := 0
	_, err = env.svc.List(ctx, note.NoteFilter{Limit: &zero})
	var errs validator.ValidationErrors
	assert.True(t, errors.As(err, &errs))
}
