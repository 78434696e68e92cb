package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
)

type SettingsServiceImpl struct {
	settings.SettingsRepository
	defaults settings.Settings
	now      func() time.Time
}

// NewSettingsService returns a service that falls back to defaults until the
// first update is saved.
func NewSettingsService(settingsRepo settings.SettingsRepository, defaults settings.Settings, now func() time.Time) settings.SettingsService {
	if now == nil {
		now = time.Now
	}
	return &SettingsServiceImpl{
		SettingsRepository: settingsRepo,
		defaults:           defaults,
		now:                now,
	}
}

// Current implements settings.SettingsService.
func (s *SettingsServiceImpl) Current(ctx context.Context) (settings.Settings, error) {
	stored, ok, err := s.SettingsRepository.Get(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	if !ok {
		return s.defaults, nil
	}
	return stored, nil
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.SettingsResponse, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}
	return settings.MapSettings(current), nil
}

// Update implements settings.SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return settings.SettingsResponse{}, err
	}

	current, err := s.Current(ctx)
	if err != nil {
		return settings.SettingsResponse{}, err
	}

	updated := req.Apply(current)
	updated.UpdatedAt = s.now().UTC()

	if err := s.SettingsRepository.Put(ctx, updated); err != nil {
		return settings.SettingsResponse{}, fmt.Errorf("failed to save settings: %w", err)
	}

	slog.Info("Settings updated",
		"language", updated.Language,
		"first_day_of_week", updated.FirstDayOfWeek,
		"multi_button_mode", updated.MultiButtonMode,
	)
	return settings.MapSettings(updated), nil
}
