package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window    fyne.Window
	settings  Settings
	onSave    func(Settings)
	onCancel  func()
	workMin   *widget.Entry
	shortMin  *widget.Entry
	longMin   *widget.Entry
	sessions  *widget.Entry
	sound     *widget.Check
	autostart *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("StudyDesk Settings")

	workMin := widget.NewEntry()
	shortMin := widget.NewEntry()
	longMin := widget.NewEntry()
	sessions := widget.NewEntry()

	workMin.SetText(fmt.Sprintf("%d", int(settings.WorkDuration.Minutes())))
	shortMin.SetText(fmt.Sprintf("%d", int(settings.ShortBreakDuration.Minutes())))
	longMin.SetText(fmt.Sprintf("%d", int(settings.LongBreakDuration.Minutes())))
	sessions.SetText(fmt.Sprintf("%d", settings.SessionsUntilLong))

	sound := widget.NewCheck("Play sound on completion", nil)
	sound.SetChecked(settings.SoundEnabled)

	autostart := widget.NewCheck("Launch at login", nil)
	autostart.SetChecked(settings.Autostart)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Work session"), workMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Short break"), shortMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Long break"), longMin, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Sessions until long break"), sessions),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sound,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 360))

	prefs := &Window{
		window:    window,
		settings:  settings,
		onSave:    onSave,
		workMin:   workMin,
		shortMin:  shortMin,
		longMin:   longMin,
		sessions:  sessions,
		sound:     sound,
		autostart: autostart,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.workMin.SetText(fmt.Sprintf("%d", int(settings.WorkDuration.Minutes())))
	prefs.shortMin.SetText(fmt.Sprintf("%d", int(settings.ShortBreakDuration.Minutes())))
	prefs.longMin.SetText(fmt.Sprintf("%d", int(settings.LongBreakDuration.Minutes())))
	prefs.sessions.SetText(fmt.Sprintf("%d", settings.SessionsUntilLong))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.workMin.Text); ok {
		settings.WorkDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.shortMin.Text); ok {
		settings.ShortBreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := parsePositiveInt(prefs.longMin.Text); ok {
		settings.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := parsePositiveInt(prefs.sessions.Text); ok {
		settings.SessionsUntilLong = count
	}

	settings.SoundEnabled = prefs.sound.Checked
	settings.Autostart = prefs.autostart.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
