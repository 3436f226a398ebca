package menu

import (
	"fmt"
	"log"
	"math/rand"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"studydesk/internal/storage"
)

var studyTips = []string{
	"Focus is the key to success!",
	"Every session counts towards your goals",
	"You're building great study habits",
	"Consistency beats perfection",
	"Keep up the excellent work!",
	"Success is built one session at a time",
}

// Callbacks defines launcher actions.
type Callbacks struct {
	OnTimer       func()
	OnReminders   func()
	OnPreferences func()
	OnLogout      func()
	OnQuit        func()
}

// Window is the post-login launcher menu.
type Window struct {
	window     fyne.Window
	store      *storage.Store
	username   string
	statsLabel *widget.Label
}

// New creates the launcher menu for a signed-in user.
func New(app fyne.App, username string, store *storage.Store, callbacks Callbacks) *Window {
	window := app.NewWindow("StudyDesk - Main Menu")

	launcher := &Window{
		window:     window,
		store:      store,
		username:   username,
		statsLabel: widget.NewLabel(""),
	}

	tip := studyTips[rand.Intn(len(studyTips))]

	content := container.NewVBox(
		widget.NewLabelWithStyle("Welcome, "+username+"!", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle(tip, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		widget.NewSeparator(),
		launcher.statsLabel,
		widget.NewSeparator(),
		widget.NewButton("Pomodoro Timer", func() { call(callbacks.OnTimer) }),
		widget.NewButton("Reminders", func() { call(callbacks.OnReminders) }),
		widget.NewButton("Preferences", func() { call(callbacks.OnPreferences) }),
		widget.NewButton("Log Out", func() { call(callbacks.OnLogout) }),
		widget.NewButton("Quit", func() { call(callbacks.OnQuit) }),
	)

	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(380, 420))
	window.CenterOnScreen()

	launcher.RefreshStats()
	return launcher
}

// Show displays the launcher.
func (launcher *Window) Show() {
	launcher.RefreshStats()
	launcher.window.Show()
	launcher.window.RequestFocus()
}

// Hide removes the launcher without quitting.
func (launcher *Window) Hide() {
	launcher.window.Hide()
}

// RefreshStats reloads the stats card from the store.
func (launcher *Window) RefreshStats() {
	stats, err := launcher.store.UserStats(launcher.username)
	if err != nil {
		log.Printf("menu: load stats: %v", err)
		launcher.statsLabel.SetText("Statistics unavailable")
		return
	}
	launcher.statsLabel.SetText(fmt.Sprintf(
		"Today: %d sessions\nThis week: %d sessions, %d minutes\nAll time: %d sessions, %d minutes",
		stats.TodaySessions, stats.WeekSessions, stats.WeekMinutes,
		stats.TotalSessions, stats.TotalMinutes))
}

func call(callback func()) {
	if callback != nil {
		callback()
	}
}
