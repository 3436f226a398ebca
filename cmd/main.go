package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"studydesk/internal/core/pomodoro"
	"studydesk/internal/core/reminder"
	"studydesk/internal/notify"
	"studydesk/internal/platform"
	"studydesk/internal/storage"
	"studydesk/internal/ui/login"
	"studydesk/internal/ui/menu"
	"studydesk/internal/ui/preferences"
	"studydesk/internal/ui/reminders"
	"studydesk/internal/ui/session"
	"studydesk/internal/ui/tray"
)

const appName = "StudyDesk"

// suite holds the per-process application state: the signed-in user and the
// lazily opened tool windows.
type suite struct {
	fyneApp       fyne.App
	db            *storage.Store
	settings      preferences.Settings
	dispatcher    *notify.Dispatcher
	reminderStore *reminder.Store
	platformSvc   platform.Service

	username       string
	loginWindow    *login.Window
	menuWindow     *menu.Window
	prefsWindow    *preferences.Window
	timerScreen    *session.Window
	reminderScreen *reminders.Window
	trayManager    *tray.Manager
}

func main() {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("com.studydesk.app")

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("load settings: %v", err)
	}

	dbPath, err := storage.DefaultDatabasePath(appName)
	if err != nil {
		log.Printf("resolve database path: %v", err)
		return
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Printf("open database: %v", err)
		return
	}
	defer db.Close()

	dispatcher := notify.New(fyneApp)
	dispatcher.SetSoundEnabled(settings.SoundEnabled)

	studydesk := &suite{
		fyneApp:       fyneApp,
		db:            db,
		settings:      settings,
		dispatcher:    dispatcher,
		reminderStore: reminder.NewStore(),
		platformSvc:   platform.NewService(),
	}

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		studydesk.trayManager = tray.New(desktopApp, tray.Callbacks{
			OnOpenTimer:     func() { fyne.Do(studydesk.openTimer) },
			OnOpenReminders: func() { fyne.Do(studydesk.openReminders) },
			OnPreferences:   func() { fyne.Do(studydesk.openPreferences) },
			OnTogglePause:   func() { fyne.Do(studydesk.togglePause) },
			OnQuit: func() {
				studydesk.shutdown()
				fyneApp.Quit()
			},
		})
	}

	studydesk.prefsWindow = preferences.New(fyneApp, settings, studydesk.applySettings)
	studydesk.loginWindow = login.New(fyneApp, db, studydesk.handleLogin)
	studydesk.loginWindow.Show()

	fyneApp.Run()
}

func (studydesk *suite) handleLogin(username string) {
	studydesk.username = username
	studydesk.loginWindow.Hide()

	studydesk.menuWindow = menu.New(studydesk.fyneApp, username, studydesk.db, menu.Callbacks{
		OnTimer:       studydesk.openTimer,
		OnReminders:   studydesk.openReminders,
		OnPreferences: studydesk.openPreferences,
		OnLogout:      studydesk.handleLogout,
		OnQuit: func() {
			studydesk.shutdown()
			studydesk.fyneApp.Quit()
		},
	})
	studydesk.menuWindow.Show()

	if studydesk.trayManager != nil {
		studydesk.trayManager.SetStatus("signed in as " + username)
	}
}

func (studydesk *suite) handleLogout() {
	studydesk.shutdown()
	studydesk.username = ""
	if studydesk.menuWindow != nil {
		studydesk.menuWindow.Hide()
		studydesk.menuWindow = nil
	}
	if studydesk.trayManager != nil {
		studydesk.trayManager.SetStatus("signed out")
	}
	studydesk.loginWindow.Show()
}

// openTimer opens the pomodoro screen, creating a fresh timer per screen.
func (studydesk *suite) openTimer() {
	if studydesk.username == "" {
		return
	}
	if studydesk.timerScreen != nil {
		studydesk.timerScreen.Show()
		return
	}

	timer := pomodoro.New(studydesk.username, studydesk.settings.TimerConfig(), pomodoro.Config{})
	timer.SetSessionSink(studydesk.db)
	timer.SetNotifier(studydesk.dispatcher)

	events := timer.Subscribe(8)
	go studydesk.watchTimer(events)

	studydesk.timerScreen = session.New(studydesk.fyneApp, studydesk.username, timer, studydesk.db)
	studydesk.timerScreen.SetOnClosed(func() {
		studydesk.timerScreen = nil
		if studydesk.trayManager != nil {
			studydesk.trayManager.SetStatus("signed in as " + studydesk.username)
			studydesk.trayManager.SetPaused(false)
		}
		if studydesk.menuWindow != nil {
			studydesk.menuWindow.RefreshStats()
		}
	})
	studydesk.timerScreen.Show()
}

func (studydesk *suite) openReminders() {
	if studydesk.username == "" {
		return
	}
	if studydesk.reminderScreen != nil {
		studydesk.reminderScreen.Show()
		return
	}
	studydesk.reminderScreen = reminders.New(
		studydesk.fyneApp, studydesk.username, studydesk.reminderStore, studydesk.dispatcher)
	studydesk.reminderScreen.SetOnClosed(func() {
		studydesk.reminderScreen = nil
	})
	studydesk.reminderScreen.Show()
}

func (studydesk *suite) openPreferences() {
	studydesk.prefsWindow.UpdateSettings(studydesk.settings)
	studydesk.prefsWindow.Show()
}

// watchTimer mirrors timer events onto the tray status line.
func (studydesk *suite) watchTimer(events <-chan pomodoro.Event) {
	for event := range events {
		if studydesk.trayManager == nil {
			continue
		}
		event := event
		fyne.Do(func() {
			switch event.Type {
			case pomodoro.EventTick, pomodoro.EventStarted, pomodoro.EventResumed:
				studydesk.trayManager.SetStatus(fmt.Sprintf("%s %s",
					event.Phase.Title(), formatRemaining(event.Remaining)))
				studydesk.trayManager.SetPaused(false)
			case pomodoro.EventPaused:
				studydesk.trayManager.SetPaused(true)
			case pomodoro.EventStopped:
				studydesk.trayManager.SetPaused(false)
			}
		})
	}
}

func (studydesk *suite) togglePause() {
	if studydesk.timerScreen == nil {
		return
	}
	timer := studydesk.timerScreen.Timer()
	if timer.Paused() {
		timer.Resume()
	} else {
		timer.Pause()
	}
}

// applySettings persists preference changes and pushes them to live components.
func (studydesk *suite) applySettings(updated preferences.Settings) {
	previous := studydesk.settings
	studydesk.settings = updated

	if err := storage.SaveSettings(appName, updated); err != nil {
		log.Printf("save settings: %v", err)
	}

	studydesk.dispatcher.SetSoundEnabled(updated.SoundEnabled)

	if studydesk.timerScreen != nil {
		studydesk.timerScreen.Timer().UpdateConfig(updated.TimerConfig())
	}

	if updated.Autostart != previous.Autostart {
		studydesk.applyAutostart(updated.Autostart)
	}
}

func (studydesk *suite) applyAutostart(enabled bool) {
	if !enabled {
		if err := studydesk.platformSvc.DisableAutostart(appName); err != nil {
			log.Printf("disable autostart: %v", err)
		}
		return
	}
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("enable autostart: resolve executable: %v", err)
		return
	}
	if err := studydesk.platformSvc.EnableAutostart(appName, execPath); err != nil {
		log.Printf("enable autostart: %v", err)
	}
}

// shutdown stops background workers before quitting or logging out.
func (studydesk *suite) shutdown() {
	if studydesk.timerScreen != nil {
		studydesk.timerScreen.Timer().Close()
		studydesk.timerScreen = nil
	}
	if studydesk.reminderScreen != nil {
		studydesk.reminderScreen.Shutdown()
		studydesk.reminderScreen = nil
	}
}

func formatRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
