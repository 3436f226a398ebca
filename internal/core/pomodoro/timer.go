package pomodoro

import (
	"fmt"
	"log"
	"sync"
	"time"

	"studydesk/internal/core/model"
)

// SessionSink receives finished work intervals for durable storage.
type SessionSink interface {
	SaveSession(username string, minutes int, sessionType string, completed bool) error
}

// Notifier produces the end-of-phase cue. Implementations must not block.
type Notifier interface {
	SessionComplete(phase Phase)
}

// Config contains runtime options for Timer.
type Config struct {
	TickInterval time.Duration
	StopTimeout  time.Duration
}

// Timer is a state machine that counts one pomodoro phase down at a time,
// alternating work and break intervals. The remaining time is mutated only by
// the worker goroutine; commands take the mutex and never touch the UI.
type Timer struct {
	mu        sync.Mutex
	config    model.TimerConfig
	options   Config
	username  string
	sink      SessionSink
	notifier  Notifier
	phase     Phase
	remaining time.Duration
	completed int
	running   bool
	paused    bool
	closed    bool
	events    []chan Event
	stopCh    chan struct{}
	done      chan struct{}
}

// New creates a Timer for username with the provided configuration.
func New(username string, config model.TimerConfig, options Config) *Timer {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.StopTimeout <= 0 {
		options.StopTimeout = 2 * time.Second
	}
	if config.SessionsUntilLongBreak <= 0 {
		config.SessionsUntilLongBreak = 4
	}

	return &Timer{
		config:    config,
		options:   options,
		username:  username,
		phase:     PhaseWork,
		remaining: config.WorkDuration,
	}
}

// SetSessionSink injects the persistence layer for session log entries.
func (timer *Timer) SetSessionSink(sink SessionSink) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.sink = sink
}

// SetNotifier injects the completion cue backend.
func (timer *Timer) SetNotifier(notifier Notifier) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.notifier = notifier
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// UpdateConfig replaces the schedule. When the timer is idle the remaining
// time is restored to the new duration of the current phase.
func (timer *Timer) UpdateConfig(config model.TimerConfig) {
	if config.SessionsUntilLongBreak <= 0 {
		config.SessionsUntilLongBreak = 4
	}
	timer.mu.Lock()
	timer.config = config
	if !timer.running {
		timer.remaining = timer.phaseTotalLocked()
	}
	timer.mu.Unlock()
}

// Start launches the countdown loop. It fails when the timer is already
// running or has been closed.
func (timer *Timer) Start() bool {
	timer.mu.Lock()
	if timer.running || timer.closed {
		timer.mu.Unlock()
		return false
	}
	timer.running = true
	timer.paused = false
	timer.stopCh = make(chan struct{})
	timer.done = make(chan struct{})
	stopCh, done := timer.stopCh, timer.done
	phase, remaining := timer.phase, timer.remaining
	timer.mu.Unlock()

	timer.emit(Event{Type: EventStarted, Phase: phase, Remaining: remaining, At: time.Now()})

	go timer.run(stopCh, done)
	return true
}

// Pause freezes the countdown; the worker stays alive but stops decrementing.
func (timer *Timer) Pause() bool {
	timer.mu.Lock()
	if !timer.running || timer.paused {
		timer.mu.Unlock()
		return false
	}
	timer.paused = true
	phase, remaining := timer.phase, timer.remaining
	timer.mu.Unlock()

	timer.emit(Event{Type: EventPaused, Phase: phase, Remaining: remaining, At: time.Now()})
	return true
}

// Resume unfreezes a paused countdown.
func (timer *Timer) Resume() bool {
	timer.mu.Lock()
	if !timer.running || !timer.paused {
		timer.mu.Unlock()
		return false
	}
	timer.paused = false
	phase, remaining := timer.phase, timer.remaining
	timer.mu.Unlock()

	timer.emit(Event{Type: EventResumed, Phase: phase, Remaining: remaining, At: time.Now()})
	return true
}

// Stop signals the worker to exit and waits a bounded time for it to finish.
// Idempotent when already stopped.
func (timer *Timer) Stop() bool {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return false
	}
	timer.running = false
	timer.paused = false
	close(timer.stopCh)
	done := timer.done
	phase, remaining := timer.phase, timer.remaining
	timer.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(timer.options.StopTimeout):
			log.Printf("pomodoro: worker did not exit within %v", timer.options.StopTimeout)
		}
	}

	timer.emit(Event{Type: EventStopped, Phase: phase, Remaining: remaining, At: time.Now()})
	return true
}

// Reset stops the countdown and restores the full duration of the current
// phase. Phase and session counters are unchanged.
func (timer *Timer) Reset() {
	timer.Stop()

	timer.mu.Lock()
	timer.remaining = timer.phaseTotalLocked()
	phase, remaining := timer.phase, timer.remaining
	timer.mu.Unlock()

	timer.emit(Event{Type: EventTick, Phase: phase, Remaining: remaining, Progress: 0, At: time.Now()})
}

// Skip abandons the current phase and advances to the next one. A skipped
// work phase is logged as an incomplete session and still counts toward the
// long-break cycle; a skipped break logs nothing.
func (timer *Timer) Skip() {
	timer.Stop()

	timer.mu.Lock()
	skipped := timer.phase
	if skipped == PhaseWork {
		timer.completed++
		timer.enterBreakLocked()
	} else {
		timer.enterWorkLocked()
	}
	phase, remaining := timer.phase, timer.remaining
	completedSessions := timer.completed
	sink, username := timer.sink, timer.username
	minutes := int(timer.config.WorkDuration / time.Minute)
	timer.mu.Unlock()

	if skipped == PhaseWork && sink != nil {
		if err := sink.SaveSession(username, minutes, model.SessionTypeWork, false); err != nil {
			log.Printf("pomodoro: save skipped session: %v", err)
			timer.emit(Event{
				Type:    EventWarning,
				Phase:   phase,
				Message: fmt.Sprintf("session skipped but not saved: %v", err),
				At:      time.Now(),
			})
		}
	}

	timer.emit(Event{
		Type:              EventSessionComplete,
		Phase:             phase,
		Remaining:         remaining,
		Completed:         false,
		CompletedSessions: completedSessions,
		At:                time.Now(),
	})
}

// Close stops the timer and closes all observer channels. The timer cannot
// be started again afterwards.
func (timer *Timer) Close() {
	timer.Stop()

	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Phase returns the active interval kind.
func (timer *Timer) Phase() Phase {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.phase
}

// Remaining returns the time left in the current phase.
func (timer *Timer) Remaining() time.Duration {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.remaining
}

// CompletedSessions returns the work-session counter.
func (timer *Timer) CompletedSessions() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.completed
}

// Running reports whether the countdown worker is active.
func (timer *Timer) Running() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.running
}

// Paused reports whether a running countdown is frozen.
func (timer *Timer) Paused() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.paused
}

// Progress returns phase completion as a percentage in [0, 100], measured
// against the configured duration of the current phase.
func (timer *Timer) Progress() float64 {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.progressLocked()
}

func (timer *Timer) run(stopCh <-chan struct{}, done chan struct{}) {
	defer close(done)
	defer func() {
		if cause := recover(); cause != nil {
			log.Printf("pomodoro: worker fault: %v", cause)
			timer.mu.Lock()
			timer.running = false
			timer.paused = false
			phase := timer.phase
			timer.mu.Unlock()
			timer.emit(Event{
				Type:    EventError,
				Phase:   phase,
				Message: fmt.Sprint(cause),
				At:      time.Now(),
			})
		}
	}()

	ticker := time.NewTicker(timer.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			if timer.tick(tickTime) {
				return
			}
		}
	}
}

// tick advances the countdown by one interval and reports whether the worker
// should exit.
func (timer *Timer) tick(tickTime time.Time) bool {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return true
	}
	if timer.paused {
		timer.mu.Unlock()
		return false
	}
	timer.remaining -= timer.options.TickInterval
	if timer.remaining < 0 {
		timer.remaining = 0
	}
	phase, remaining := timer.phase, timer.remaining
	progress := timer.progressLocked()
	timer.mu.Unlock()

	timer.emit(Event{Type: EventTick, Phase: phase, Remaining: remaining, Progress: progress, At: tickTime})

	if remaining <= 0 {
		timer.complete(tickTime)
		return true
	}
	return false
}

// complete handles a countdown that reached zero naturally.
func (timer *Timer) complete(at time.Time) {
	timer.mu.Lock()
	timer.running = false
	timer.paused = false
	finished := timer.phase
	if finished == PhaseWork {
		timer.completed++
		timer.enterBreakLocked()
	} else {
		timer.enterWorkLocked()
	}
	phase, remaining := timer.phase, timer.remaining
	completedSessions := timer.completed
	sink, notifier, username := timer.sink, timer.notifier, timer.username
	minutes := int(timer.config.WorkDuration / time.Minute)
	timer.mu.Unlock()

	timer.emit(Event{Type: EventStopped, Phase: finished, At: at})

	if notifier != nil {
		notifier.SessionComplete(finished)
	}

	if finished == PhaseWork && sink != nil {
		if err := sink.SaveSession(username, minutes, model.SessionTypeWork, true); err != nil {
			log.Printf("pomodoro: save completed session: %v", err)
			timer.emit(Event{
				Type:    EventWarning,
				Phase:   phase,
				Message: fmt.Sprintf("session completed but not saved: %v", err),
				At:      at,
			})
		}
	}

	timer.emit(Event{
		Type:              EventSessionComplete,
		Phase:             phase,
		Remaining:         remaining,
		Completed:         true,
		CompletedSessions: completedSessions,
		At:                at,
	})
}

// enterBreakLocked picks short or long break by the completed-session count.
func (timer *Timer) enterBreakLocked() {
	if timer.completed%timer.config.SessionsUntilLongBreak == 0 {
		timer.phase = PhaseLongBreak
		timer.remaining = timer.config.LongBreakDuration
	} else {
		timer.phase = PhaseShortBreak
		timer.remaining = timer.config.ShortBreakDuration
	}
}

func (timer *Timer) enterWorkLocked() {
	timer.phase = PhaseWork
	timer.remaining = timer.config.WorkDuration
}

// phaseTotalLocked returns the configured duration of the current phase,
// re-deriving the break flavor so the total is never stale.
func (timer *Timer) phaseTotalLocked() time.Duration {
	if timer.phase == PhaseWork {
		return timer.config.WorkDuration
	}
	if timer.completed%timer.config.SessionsUntilLongBreak == 0 {
		return timer.config.LongBreakDuration
	}
	return timer.config.ShortBreakDuration
}

func (timer *Timer) progressLocked() float64 {
	total := timer.phaseTotalLocked()
	if total <= 0 {
		return 0
	}
	progress := float64(total-timer.remaining) / float64(total) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

func (timer *Timer) emit(event Event) {
	timer.mu.Lock()
	events := append([]chan Event(nil), timer.events...)
	timer.mu.Unlock()
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
