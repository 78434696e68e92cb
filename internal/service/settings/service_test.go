package settings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/repository/sqlite"
	settingsService "github.com/cmlabs-hris/shiftsavvy-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (settings.SettingsService, settings.SettingsRepository) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewSettingsRepository(db)
	return settingsService.NewSettingsService(repo, settings.Default(settings.LanguageEnglish), func() time.Time { return now }), repo
}

// Test Get - defaults until something is saved
func TestSettingsService_Get_Defaults(t *testing.T) {
	svc, repo := newService(t)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.LanguageEnglish, got.Language)
	assert.Equal(t, settings.FirstDayMonday, got.FirstDayOfWeek)
	assert.Nil(t, got.UpdatedAt)

	_, ok, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "reading must not persist defaults")
}

// Test Update - partial updates merge with the current settings
func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	got, err := svc.Update(ctx, settings.UpdateSettingsRequest{Language: ptr(settings.LanguageVietnamese)})
	require.NoError(t, err)
	assert.Equal(t, settings.LanguageVietnamese, got.Language)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, "2025-03-12T10:00:00Z", *got.UpdatedAt)

	got, err = svc.Update(ctx, settings.UpdateSettingsRequest{FirstDayOfWeek: ptr(settings.FirstDaySunday)})
	require.NoError(t, err)
	assert.Equal(t, settings.LanguageVietnamese, got.Language)
	assert.Equal(t, settings.FirstDaySunday, got.FirstDayOfWeek)

	current, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, current.WeekStart())
}

// Test Update - invalid values are rejected and nothing is saved
func TestSettingsService_Update_Invalid(t *testing.T) {
	ctx := context.Background()
	svc, repo := newService(t)

	_, err := svc.Update(ctx, settings.UpdateSettingsRequest{ChangeShiftReminderMode: ptr("hourly")})
	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.HasField("change_shift_reminder_mode"))

	_, ok, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
