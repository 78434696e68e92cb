package settings

import "context"

// SettingsRepository stores the single settings record.
type SettingsRepository interface {
	// Get reports ok=false when nothing has been saved yet
	Get(ctx context.Context) (s Settings, ok bool, err error)
	Put(ctx context.Context, s Settings) error
}
