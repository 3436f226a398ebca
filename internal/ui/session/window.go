package session

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"studydesk/internal/core/model"
	"studydesk/internal/core/pomodoro"
	"studydesk/internal/storage"
)

var motivationalMessages = []string{
	"Amazing work! You're on fire today!",
	"You're becoming more focused every session!",
	"Great job! Keep this momentum going!",
	"Fantastic effort! You're a study superstar!",
	"Outstanding! You're reaching new heights!",
	"Perfect focus! You're in the zone!",
}

// Window is the pomodoro timer screen. It owns one Timer for its lifetime
// and consumes its events on a background goroutine, touching widgets only
// through fyne.Do.
type Window struct {
	window   fyne.Window
	timer    *pomodoro.Timer
	store    *storage.Store
	username string

	phaseLabel  *widget.Label
	timeLabel   *widget.Label
	statusLabel *widget.Label
	progress    *widget.ProgressBar
	statsLabel  *widget.Label
	pauseButton *widget.Button
	history     []model.SessionLogEntry
	historyList *widget.List
}

// New creates the timer screen and starts its event consumer.
func New(app fyne.App, username string, timer *pomodoro.Timer, store *storage.Store) *Window {
	window := app.NewWindow("StudyDesk - Pomodoro Timer")

	screen := &Window{
		window:   window,
		timer:    timer,
		store:    store,
		username: username,
	}

	screen.phaseLabel = widget.NewLabelWithStyle(
		timer.Phase().Title(), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	screen.timeLabel = widget.NewLabelWithStyle(
		formatDuration(timer.Remaining()), fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})
	screen.statusLabel = widget.NewLabelWithStyle("Ready", fyne.TextAlignCenter, fyne.TextStyle{})
	screen.progress = widget.NewProgressBar()
	screen.progress.Max = 100
	screen.statsLabel = widget.NewLabel("")

	startButton := widget.NewButton("Start", func() {
		if !screen.timer.Start() {
			screen.statusLabel.SetText("Already running")
		}
	})
	screen.pauseButton = widget.NewButton("Pause", func() {
		if screen.timer.Paused() {
			screen.timer.Resume()
		} else {
			screen.timer.Pause()
		}
	})
	resetButton := widget.NewButton("Reset", func() { screen.timer.Reset() })
	skipButton := widget.NewButton("Skip", func() { screen.timer.Skip() })

	screen.historyList = widget.NewList(
		func() int { return len(screen.history) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(index widget.ListItemID, object fyne.CanvasObject) {
			if index >= len(screen.history) {
				return
			}
			entry := screen.history[index]
			status := "completed"
			if !entry.Completed {
				status = "skipped"
			}
			object.(*widget.Label).SetText(fmt.Sprintf("%s  %d min %s (%s)",
				entry.StartTime.Format("2006-01-02 15:04"), entry.Minutes, entry.Type, status))
		},
	)

	controls := container.NewGridWithColumns(4, startButton, screen.pauseButton, resetButton, skipButton)
	top := container.NewVBox(
		screen.phaseLabel,
		screen.timeLabel,
		screen.progress,
		screen.statusLabel,
		controls,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Your Progress", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		screen.statsLabel,
		widget.NewLabelWithStyle("Recent Sessions", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	window.SetContent(container.NewBorder(top, nil, nil, nil, screen.historyList))
	window.Resize(fyne.NewSize(460, 620))
	window.CenterOnScreen()

	window.SetCloseIntercept(func() {
		screen.timer.Close()
		window.Close()
	})

	events := timer.Subscribe(16)
	go screen.consume(events)

	screen.refreshStats()
	return screen
}

// Show displays the timer screen.
func (screen *Window) Show() {
	screen.window.Show()
	screen.window.RequestFocus()
}

// Timer exposes the screen's timer, for tray pause/resume wiring.
func (screen *Window) Timer() *pomodoro.Timer {
	return screen.timer
}

// SetOnClosed registers a callback invoked after the window closes.
func (screen *Window) SetOnClosed(callback func()) {
	screen.window.SetOnClosed(callback)
}

func (screen *Window) consume(events <-chan pomodoro.Event) {
	for event := range events {
		event := event
		fyne.Do(func() { screen.apply(event) })
	}
}

func (screen *Window) apply(event pomodoro.Event) {
	switch event.Type {
	case pomodoro.EventTick:
		screen.timeLabel.SetText(formatDuration(event.Remaining))
		screen.progress.SetValue(event.Progress)
	case pomodoro.EventStarted:
		screen.statusLabel.SetText("Focusing...")
		screen.pauseButton.SetText("Pause")
	case pomodoro.EventPaused:
		screen.statusLabel.SetText("Paused")
		screen.pauseButton.SetText("Resume")
	case pomodoro.EventResumed:
		screen.statusLabel.SetText("Focusing...")
		screen.pauseButton.SetText("Pause")
	case pomodoro.EventStopped:
		screen.statusLabel.SetText("Stopped")
		screen.pauseButton.SetText("Pause")
	case pomodoro.EventError:
		screen.statusLabel.SetText("Timer error: " + event.Message)
	case pomodoro.EventWarning:
		dialog.ShowInformation("Database Warning", event.Message, screen.window)
	case pomodoro.EventSessionComplete:
		screen.phaseLabel.SetText(event.Phase.Title())
		screen.timeLabel.SetText(formatDuration(event.Remaining))
		screen.progress.SetValue(0)
		screen.refreshStats()
		if event.Completed && event.Phase != pomodoro.PhaseWork {
			// A work phase just finished and the timer moved to a break.
			message := motivationalMessages[rand.Intn(len(motivationalMessages))]
			dialog.ShowInformation("Session Complete!",
				message+"\nTime for a well-deserved break!", screen.window)
		} else if event.Completed {
			dialog.ShowInformation("Break Complete!",
				"Break time is over!\nReady for another productive session?", screen.window)
		}
	}
}

func (screen *Window) refreshStats() {
	stats, err := screen.store.UserStats(screen.username)
	if err != nil {
		log.Printf("session screen: load stats: %v", err)
		screen.statsLabel.SetText("Statistics unavailable")
	} else {
		screen.statsLabel.SetText(fmt.Sprintf(
			"Today: %d sessions   Week: %d sessions (%d min)\nTotal: %d sessions, %d minutes (avg %.1f min)",
			stats.TodaySessions, stats.WeekSessions, stats.WeekMinutes,
			stats.TotalSessions, stats.TotalMinutes, stats.AvgMinutes))
	}

	history, err := screen.store.SessionHistory(screen.username, 20)
	if err != nil {
		log.Printf("session screen: load history: %v", err)
		return
	}
	screen.history = history
	screen.historyList.Refresh()
}

func formatDuration(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
