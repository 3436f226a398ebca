package pomodoro

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studydesk/internal/core/model"
)

type sessionCall struct {
	username    string
	minutes     int
	sessionType string
	completed   bool
}

type recordingSink struct {
	mu    sync.Mutex
	calls []sessionCall
	err   error
}

func (sink *recordingSink) SaveSession(username string, minutes int, sessionType string, completed bool) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.calls = append(sink.calls, sessionCall{username, minutes, sessionType, completed})
	return sink.err
}

func (sink *recordingSink) recorded() []sessionCall {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	return append([]sessionCall(nil), sink.calls...)
}

func fastConfig() model.TimerConfig {
	return model.TimerConfig{
		WorkDuration:           50 * time.Millisecond,
		ShortBreakDuration:     30 * time.Millisecond,
		LongBreakDuration:      40 * time.Millisecond,
		SessionsUntilLongBreak: 4,
	}
}

func fastTimer(username string) *Timer {
	return New(username, fastConfig(), Config{
		TickInterval: 10 * time.Millisecond,
		StopTimeout:  time.Second,
	})
}

func waitForEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "event channel closed while waiting for %s", want)
			if event.Type == want {
				return event
			}
		case <-deadline:
			t.Fatalf("no %s event within deadline", want)
		}
	}
}

func TestNewStartsIdleInWorkPhase(t *testing.T) {
	timer := fastTimer("ada")

	assert.Equal(t, PhaseWork, timer.Phase())
	assert.Equal(t, fastConfig().WorkDuration, timer.Remaining())
	assert.False(t, timer.Running())
	assert.False(t, timer.Paused())
	assert.Zero(t, timer.CompletedSessions())
	assert.Zero(t, timer.Progress())
}

func TestStartTwiceFails(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	require.True(t, timer.Start())
	assert.False(t, timer.Start())
}

func TestStopIsIdempotent(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	require.True(t, timer.Start())
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.False(t, timer.Running())
}

func TestPauseFreezesCountdown(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	require.False(t, timer.Pause(), "pause must fail while idle")

	require.True(t, timer.Start())
	require.True(t, timer.Pause())
	assert.True(t, timer.Paused())

	frozen := timer.Remaining()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, frozen, timer.Remaining(), "paused timer must not decrement")

	require.True(t, timer.Resume())
	assert.False(t, timer.Paused())

	events := timer.Subscribe(16)
	waitForEvent(t, events, EventTick)
	assert.Less(t, timer.Remaining(), frozen)
}

func TestPauseResumeDriftBoundedByOneTick(t *testing.T) {
	const tick = 20 * time.Millisecond
	timer := New("ada", model.TimerConfig{
		WorkDuration:           time.Second,
		ShortBreakDuration:     time.Second,
		LongBreakDuration:      time.Second,
		SessionsUntilLongBreak: 4,
	}, Config{TickInterval: tick, StopTimeout: time.Second})
	defer timer.Close()

	events := timer.Subscribe(64)
	require.True(t, timer.Start())

	first := waitForEvent(t, events, EventTick)
	require.True(t, timer.Pause())

	// Let the wall clock run several ticks ahead while frozen.
	time.Sleep(5 * tick)
	resumedAt := time.Now()
	require.True(t, timer.Resume())

	var next Event
	for {
		next = waitForEvent(t, events, EventTick)
		if next.At.After(resumedAt) {
			break
		}
	}

	// Only unpaused ticks decrement, so the countdown loses at most one tick
	// against where it stood before the pause.
	drift := first.Remaining - tick - next.Remaining
	assert.GreaterOrEqual(t, drift, time.Duration(0))
	assert.LessOrEqual(t, drift, tick, "pause cost more than one tick of countdown")
}

func TestResumeWithoutPauseFails(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	require.True(t, timer.Start())
	assert.False(t, timer.Resume())
}

func TestNaturalWorkCompletionEntersBreak(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()
	sink := &recordingSink{}
	timer.SetSessionSink(sink)

	events := timer.Subscribe(64)
	require.True(t, timer.Start())

	event := waitForEvent(t, events, EventSessionComplete)
	assert.True(t, event.Completed)
	assert.Equal(t, 1, event.CompletedSessions)
	assert.Equal(t, PhaseShortBreak, event.Phase)

	assert.Equal(t, PhaseShortBreak, timer.Phase())
	assert.Equal(t, fastConfig().ShortBreakDuration, timer.Remaining())
	assert.False(t, timer.Running())
	assert.Equal(t, 1, timer.CompletedSessions())

	calls := sink.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "ada", calls[0].username)
	assert.Equal(t, model.SessionTypeWork, calls[0].sessionType)
	assert.True(t, calls[0].completed)
}

func TestBreakCompletionReturnsToWork(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()
	sink := &recordingSink{}
	timer.SetSessionSink(sink)

	events := timer.Subscribe(64)

	require.True(t, timer.Start())
	waitForEvent(t, events, EventSessionComplete)
	require.Equal(t, PhaseShortBreak, timer.Phase())

	require.True(t, timer.Start())
	waitForEvent(t, events, EventSessionComplete)

	assert.Equal(t, PhaseWork, timer.Phase())
	assert.Equal(t, fastConfig().WorkDuration, timer.Remaining())
	assert.Equal(t, 1, timer.CompletedSessions(), "breaks never increment the counter")
	assert.Len(t, sink.recorded(), 1, "breaks are not logged")
}

func TestEveryFourthSessionEarnsLongBreak(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	for cycle := 1; cycle <= 8; cycle++ {
		require.Equal(t, PhaseWork, timer.Phase())
		timer.Skip()

		if cycle%4 == 0 {
			assert.Equal(t, PhaseLongBreak, timer.Phase(), "cycle %d", cycle)
			assert.Equal(t, fastConfig().LongBreakDuration, timer.Remaining())
		} else {
			assert.Equal(t, PhaseShortBreak, timer.Phase(), "cycle %d", cycle)
			assert.Equal(t, fastConfig().ShortBreakDuration, timer.Remaining())
		}
		timer.Skip()
	}

	assert.Equal(t, 8, timer.CompletedSessions())
}

func TestSkipDuringWorkLogsIncompleteSession(t *testing.T) {
	config := model.TimerConfig{
		WorkDuration:           25 * time.Minute,
		ShortBreakDuration:     5 * time.Minute,
		LongBreakDuration:      15 * time.Minute,
		SessionsUntilLongBreak: 4,
	}
	timer := New("ada", config, Config{})
	defer timer.Close()
	sink := &recordingSink{}
	timer.SetSessionSink(sink)

	timer.Skip()

	assert.Equal(t, 1, timer.CompletedSessions(), "a skipped work phase still advances the cycle")
	calls := sink.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, 25, calls[0].minutes)
	assert.Equal(t, model.SessionTypeWork, calls[0].sessionType)
	assert.False(t, calls[0].completed)

	// Skipping the break that follows must log nothing.
	timer.Skip()
	assert.Equal(t, PhaseWork, timer.Phase())
	assert.Len(t, sink.recorded(), 1)
}

func TestResetRestoresFullPhase(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	events := timer.Subscribe(64)
	require.True(t, timer.Start())
	waitForEvent(t, events, EventTick)
	require.Less(t, timer.Remaining(), fastConfig().WorkDuration)

	timer.Reset()

	assert.False(t, timer.Running())
	assert.Equal(t, PhaseWork, timer.Phase())
	assert.Equal(t, fastConfig().WorkDuration, timer.Remaining())
	assert.Zero(t, timer.CompletedSessions(), "reset never touches the counter")
}

func TestProgressIsMonotoneWithinPhase(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	events := timer.Subscribe(64)
	require.True(t, timer.Start())

	previous := -1.0
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			switch event.Type {
			case EventTick:
				assert.GreaterOrEqual(t, event.Progress, previous)
				assert.LessOrEqual(t, event.Progress, 100.0)
				previous = event.Progress
			case EventSessionComplete:
				return
			}
		case <-deadline:
			t.Fatal("phase did not complete")
		}
	}
}

func TestSinkFailureEmitsWarning(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()
	sink := &recordingSink{err: errors.New("disk full")}
	timer.SetSessionSink(sink)

	events := timer.Subscribe(64)
	require.True(t, timer.Start())

	warning := waitForEvent(t, events, EventWarning)
	assert.Contains(t, warning.Message, "disk full")

	// The cycle still advances: persistence failures never wedge the timer.
	assert.Equal(t, 1, timer.CompletedSessions())
	assert.Equal(t, PhaseShortBreak, timer.Phase())
}

func TestUpdateConfigWhileIdleRescalesRemaining(t *testing.T) {
	timer := fastTimer("ada")
	defer timer.Close()

	updated := fastConfig()
	updated.WorkDuration = 80 * time.Millisecond
	timer.UpdateConfig(updated)

	assert.Equal(t, 80*time.Millisecond, timer.Remaining())
}

func TestCloseClosesObserversAndBlocksRestart(t *testing.T) {
	timer := fastTimer("ada")
	events := timer.Subscribe(4)

	require.True(t, timer.Start())
	timer.Close()

	assert.False(t, timer.Start(), "closed timer must not restart")

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("observer channel was not closed")
		}
	}
}
