package preferences

import (
	"time"

	"studydesk/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration
	SessionsUntilLong  int

	SoundEnabled bool
	Autostart    bool
}

// DefaultSettings returns default settings for StudyDesk.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:       25 * time.Minute,
		ShortBreakDuration: 5 * time.Minute,
		LongBreakDuration:  15 * time.Minute,
		SessionsUntilLong:  4,
		SoundEnabled:       true,
		Autostart:          false,
	}
}

// TimerConfig converts settings to TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration:           settings.WorkDuration,
		ShortBreakDuration:     settings.ShortBreakDuration,
		LongBreakDuration:      settings.LongBreakDuration,
		SessionsUntilLongBreak: settings.SessionsUntilLong,
	}
}
