package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/domain/settings"
	"github.com/cmlabs-hris/shiftsavvy-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const settingUserSettings = "user_settings"

type settingsJSON struct {
	Language                string    `json:"language"`
	FirstDayOfWeek          string    `json:"first_day_of_week"`
	MultiButtonMode         string    `json:"multi_button_mode"`
	ChangeShiftReminderMode string    `json:"change_shift_reminder_mode"`
	UpdatedAt               time.Time `json:"updated_at"`
}

type settingsRepositoryImpl struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepositoryImpl{db: db}
}

// Get implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Get(ctx context.Context) (settings.Settings, bool, error) {
	return getSettings(ctx, GetQuerier(ctx, r.db))
}

// Put implements settings.SettingsRepository.
func (r *settingsRepositoryImpl) Put(ctx context.Context, s settings.Settings) error {
	return putSettings(ctx, GetQuerier(ctx, r.db), s)
}

func getSettings(ctx context.Context, q database.Querier) (settings.Settings, bool, error) {
	var value string
	err := q.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, settingUserSettings).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, false, nil
		}
		return settings.Settings{}, false, fmt.Errorf("failed to get settings: %w", err)
	}

	var stored settingsJSON
	if err := json.Unmarshal([]byte(value), &stored); err != nil {
		return settings.Settings{}, false, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings.Settings{
		Language:                stored.Language,
		FirstDayOfWeek:          stored.FirstDayOfWeek,
		MultiButtonMode:         stored.MultiButtonMode,
		ChangeShiftReminderMode: stored.ChangeShiftReminderMode,
		UpdatedAt:               stored.UpdatedAt,
	}, true, nil
}

func putSettings(ctx context.Context, q database.Querier, s settings.Settings) error {
	value, err := json.Marshal(settingsJSON{
		Language:                s.Language,
		FirstDayOfWeek:          s.FirstDayOfWeek,
		MultiButtonMode:         s.MultiButtonMode,
		ChangeShiftReminderMode: s.ChangeShiftReminderMode,
		UpdatedAt:               s.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, settingUserSettings, string(value))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
