package settings

import "time"

const (
	LanguageVietnamese = "vi"
	LanguageEnglish    = "en"

	FirstDayMonday = "Mon"
	FirstDaySunday = "Sun"

	// ButtonModeSimple exposes only the departure step on the attendance button
	ButtonModeFull   = "full"
	ButtonModeSimple = "simple"

	ReminderAskWeekly = "ask_weekly"
	ReminderRotate    = "rotate"
	ReminderDisabled  = "disabled"
)

// Settings are the user preferences shared by every component. There is a
// single record; UpdatedAt is zero until it has been saved once.
type Settings struct {
	Language                string
	FirstDayOfWeek          string
	MultiButtonMode         string
	ChangeShiftReminderMode string
	UpdatedAt               time.Time
}

// Default returns the settings used before anything has been saved.
func Default(language string) Settings {
	if language != LanguageEnglish {
		language = LanguageVietnamese
	}
	return Settings{
		Language:                language,
		FirstDayOfWeek:          FirstDayMonday,
		MultiButtonMode:         ButtonModeFull,
		ChangeShiftReminderMode: ReminderDisabled,
	}
}

// WeekStart returns the weekday weekly views begin on.
func (s Settings) WeekStart() time.Weekday {
	if s.FirstDayOfWeek == FirstDaySunday {
		return time.Sunday
	}
	return time.Monday
}
