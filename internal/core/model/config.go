package model

import "time"

// TimerConfig contains runtime settings for the pomodoro state machine.
type TimerConfig struct {
	WorkDuration       time.Duration
	ShortBreakDuration time.Duration
	LongBreakDuration  time.Duration

	// SessionsUntilLongBreak selects a long break whenever the completed
	// work-session count is a multiple of it.
	SessionsUntilLongBreak int
}

// DefaultTimerConfig returns the classic 25/5/15 pomodoro schedule.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		WorkDuration:           25 * time.Minute,
		ShortBreakDuration:     5 * time.Minute,
		LongBreakDuration:      15 * time.Minute,
		SessionsUntilLongBreak: 4,
	}
}
