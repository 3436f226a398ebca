package notify

import (
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"studydesk/internal/core/model"
	"studydesk/internal/core/pomodoro"
)

// Dispatcher produces the audible and visual cues for phase completions and
// fired reminders. Delivery runs on its own goroutine, failures are logged
// and swallowed, and callers are never blocked.
type Dispatcher struct {
	app   fyne.App
	mu    sync.Mutex
	sound bool
}

// New creates a dispatcher backed by the Fyne notification API. A nil app
// degrades to the console fallback.
func New(app fyne.App) *Dispatcher {
	return &Dispatcher{app: app, sound: true}
}

// SetSoundEnabled toggles the audible cue.
func (dispatcher *Dispatcher) SetSoundEnabled(enabled bool) {
	dispatcher.mu.Lock()
	dispatcher.sound = enabled
	dispatcher.mu.Unlock()
}

// SessionComplete announces the end of a timer phase.
func (dispatcher *Dispatcher) SessionComplete(phase pomodoro.Phase) {
	if phase == pomodoro.PhaseWork {
		dispatcher.deliver("Session Complete!", "Great focus! Time for a well-deserved break.")
		return
	}
	dispatcher.deliver("Break Complete!", "Break time is over. Ready for another session?")
}

// ReminderDue announces a fired reminder.
func (dispatcher *Dispatcher) ReminderDue(record model.Reminder) {
	dispatcher.deliver(
		"Reminder: "+record.Category,
		fmt.Sprintf("%s (due %s at %s)", record.Message, record.DueDate(), record.DueClock()),
	)
}

func (dispatcher *Dispatcher) deliver(title, message string) {
	go func() {
		defer func() {
			if cause := recover(); cause != nil {
				log.Printf("notify: %v", cause)
			}
		}()

		if dispatcher.app != nil {
			dispatcher.app.SendNotification(fyne.NewNotification(title, message))
		} else {
			log.Printf("notify: %s: %s", title, message)
		}

		if dispatcher.soundEnabled() {
			bell()
		}
	}()
}

func (dispatcher *Dispatcher) soundEnabled() bool {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	return dispatcher.sound
}

// bell writes a short burst of terminal bells, the portable fallback when no
// sound backend exists.
func bell() {
	for index := 0; index < 3; index++ {
		fmt.Print("\a")
		time.Sleep(100 * time.Millisecond)
	}
}
