package settings

import "context"

// SettingsService reads and changes the user preferences
type SettingsService interface {
	Get(ctx context.Context) (SettingsResponse, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Current returns the saved settings, or the defaults when none are saved
	Current(ctx context.Context) (Settings, error)
}
