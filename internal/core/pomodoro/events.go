package pomodoro

import "time"

// Phase represents the interval the timer is counting down.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Title returns the phase name shown on the timer screen.
func (phase Phase) Title() string {
	switch phase {
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Focus Time"
	}
}

// EventType defines the type of timer event.
type EventType string

const (
	EventStarted         EventType = "started"
	EventPaused          EventType = "paused"
	EventResumed         EventType = "resumed"
	EventStopped         EventType = "stopped"
	EventError           EventType = "error"
	EventTick            EventType = "tick"
	EventSessionComplete EventType = "session_complete"
	EventWarning         EventType = "warning"
)

// Event represents a timer update for observers.
type Event struct {
	Type              EventType
	Phase             Phase
	Remaining         time.Duration
	Progress          float64
	Completed         bool
	CompletedSessions int
	Message           string
	At                time.Time
}
