package reminders

import (
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"studydesk/internal/core/model"
	"studydesk/internal/core/reminder"
	"studydesk/internal/notify"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Window is the reminder screen: creation form, list with filters, calendar,
// and the background checker that fires due reminders.
type Window struct {
	window     fyne.Window
	store      *reminder.Store
	checker    *reminder.Checker
	dispatcher *notify.Dispatcher
	username   string

	clockLabel *widget.Label
	message    *widget.Entry
	date       *widget.Entry
	timeEntry  *widget.Entry
	category   *widget.Entry
	search     *widget.Entry
	list       *widget.List
	visible    []model.Reminder
	selected   int
	clockStop  chan struct{}
	stopOnce   sync.Once
}

// New creates the reminder screen and starts its checker and clock.
func New(app fyne.App, username string, store *reminder.Store, dispatcher *notify.Dispatcher) *Window {
	window := app.NewWindow("StudyDesk - Reminders")

	screen := &Window{
		window:     window,
		store:      store,
		checker:    reminder.NewChecker(store, username, reminder.CheckerConfig{}),
		dispatcher: dispatcher,
		username:   username,
		selected:   -1,
		clockStop:  make(chan struct{}),
	}

	screen.clockLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})

	screen.message = widget.NewEntry()
	screen.message.SetPlaceHolder("Reminder message")
	screen.date = widget.NewEntry()
	screen.date.SetText(time.Now().Format(dateLayout))
	screen.timeEntry = widget.NewEntry()
	screen.timeEntry.SetPlaceHolder("HH:MM:SS")
	screen.category = widget.NewEntry()
	screen.category.SetPlaceHolder(model.DefaultCategory)

	pickDate := widget.NewButton("Pick Date", screen.openDatePicker)
	addButton := widget.NewButton("Add Reminder", screen.handleAdd)
	screen.message.OnSubmitted = func(string) { screen.handleAdd() }
	screen.timeEntry.OnSubmitted = func(string) { screen.handleAdd() }

	form := container.NewVBox(
		widget.NewLabelWithStyle("Create New Reminder", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		screen.message,
		container.NewGridWithColumns(3, screen.date, pickDate, screen.timeEntry),
		screen.category,
		addButton,
	)

	screen.search = widget.NewEntry()
	screen.search.SetPlaceHolder("Search message, category or date")
	screen.search.OnSubmitted = func(string) { screen.handleSearch() }
	searchRow := container.NewGridWithColumns(4,
		widget.NewButton("Search", screen.handleSearch),
		widget.NewButton("Show All", screen.showAll),
		widget.NewButton("Today", screen.showToday),
		widget.NewButton("Calendar", screen.openCalendarView),
	)

	screen.list = widget.NewList(
		func() int { return len(screen.visible) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(index widget.ListItemID, object fyne.CanvasObject) {
			if index >= len(screen.visible) {
				return
			}
			object.(*widget.Label).SetText(describe(screen.visible[index]))
		},
	)
	screen.list.OnSelected = func(index widget.ListItemID) { screen.selected = index }
	screen.list.OnUnselected = func(widget.ListItemID) { screen.selected = -1 }

	actions := container.NewGridWithColumns(3,
		widget.NewButton("Mark Done", screen.handleMarkDone),
		widget.NewButton("Delete", screen.handleDelete),
		widget.NewButton("Clear All", screen.handleClearAll),
	)

	top := container.NewVBox(screen.clockLabel, form, screen.search, searchRow)
	window.SetContent(container.NewBorder(top, actions, nil, nil, screen.list))
	window.Resize(fyne.NewSize(560, 700))
	window.CenterOnScreen()

	window.SetCloseIntercept(func() {
		screen.Shutdown()
		window.Close()
	})

	screen.checker.Start()
	go screen.consumeFired()
	go screen.runClock()
	screen.showAll()

	return screen
}

// Show displays the reminder screen.
func (screen *Window) Show() {
	screen.window.Show()
	screen.window.RequestFocus()
}

// Shutdown stops the checker and clock workers. Safe to call more than once.
func (screen *Window) Shutdown() {
	screen.stopOnce.Do(func() {
		screen.checker.Stop()
		close(screen.clockStop)
	})
}

// SetOnClosed registers a callback invoked after the window closes.
func (screen *Window) SetOnClosed(callback func()) {
	screen.window.SetOnClosed(callback)
}

// consumeFired hands fired reminders to the UI thread and the dispatcher.
func (screen *Window) consumeFired() {
	for record := range screen.checker.Fired() {
		record := record
		screen.dispatcher.ReminderDue(record)
		fyne.Do(func() {
			dialog.ShowInformation("Reminder Alert!",
				fmt.Sprintf("It's time!\n\n%s\nDate: %s\nTime: %s\nCategory: %s",
					record.Message, record.DueDate(), record.DueClock(), record.Category),
				screen.window)
			screen.refresh()
		})
	}
}

func (screen *Window) runClock() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-screen.clockStop:
			return
		case now := <-ticker.C:
			text := now.Format("15:04:05") + "  " + now.Format("Monday, January 2, 2006")
			fyne.Do(func() { screen.clockLabel.SetText(text) })
		}
	}
}

func (screen *Window) handleAdd() {
	message := screen.message.Text
	dateText := screen.date.Text
	timeText := screen.timeEntry.Text

	due, err := parseDue(dateText, timeText)
	if err != nil {
		dialog.ShowError(err, screen.window)
		return
	}

	now := time.Now()
	if err := reminder.ValidateSchedule(due, now); err != nil {
		dialog.ShowError(err, screen.window)
		return
	}

	if reminder.FarFuture(due, now) {
		dialog.ShowConfirm("Far Future Date",
			fmt.Sprintf("The selected date is more than 2 years away (%s).\nCreate this reminder anyway?", dateText),
			func(confirmed bool) {
				if confirmed {
					screen.addReminder(message, due)
				}
			}, screen.window)
		return
	}

	screen.addReminder(message, due)
}

func (screen *Window) addReminder(message string, due time.Time) {
	record, err := screen.store.Add(screen.username, message, screen.category.Text, due)
	if err != nil {
		dialog.ShowError(err, screen.window)
		return
	}

	screen.message.SetText("")
	screen.timeEntry.SetText("")
	screen.category.SetText("")
	screen.refresh()

	dialog.ShowInformation("Reminder Added",
		fmt.Sprintf("%s\n%s at %s\nCategory: %s\nTriggers %s",
			record.Message, record.DueDate(), record.DueClock(), record.Category,
			untilText(record.Due, time.Now())),
		screen.window)
}

func (screen *Window) handleSearch() {
	screen.visible = screen.store.Search(screen.username, screen.search.Text)
	screen.list.UnselectAll()
	screen.list.Refresh()
}

func (screen *Window) showAll() {
	screen.search.SetText("")
	screen.refresh()
}

func (screen *Window) showToday() {
	screen.visible = screen.store.ForDate(screen.username, time.Now())
	screen.search.SetText("Today: " + time.Now().Format(dateLayout))
	screen.list.UnselectAll()
	screen.list.Refresh()
}

// refresh re-applies the current search filter against the store.
func (screen *Window) refresh() {
	screen.visible = screen.store.Search(screen.username, screen.search.Text)
	screen.list.Refresh()
}

func (screen *Window) handleMarkDone() {
	record, ok := screen.selectedReminder()
	if !ok {
		dialog.ShowInformation("Reminders", "Select a reminder to mark as done.", screen.window)
		return
	}
	screen.store.MarkDone(record.ID)
	screen.refresh()
}

func (screen *Window) handleDelete() {
	record, ok := screen.selectedReminder()
	if !ok {
		dialog.ShowInformation("Reminders", "Select a reminder to delete.", screen.window)
		return
	}
	dialog.ShowConfirm("Confirm Deletion",
		fmt.Sprintf("Delete this reminder?\n\n%s\n%s at %s", record.Message, record.DueDate(), record.DueClock()),
		func(confirmed bool) {
			if confirmed {
				screen.store.Delete(record.ID)
				screen.list.UnselectAll()
				screen.refresh()
			}
		}, screen.window)
}

func (screen *Window) handleClearAll() {
	count := screen.store.Count(screen.username)
	if count == 0 {
		dialog.ShowInformation("Reminders", "No reminders to clear.", screen.window)
		return
	}
	dialog.ShowConfirm("Confirm Clear All",
		fmt.Sprintf("Delete all %d of your reminders?\nThis cannot be undone.", count),
		func(confirmed bool) {
			if confirmed {
				screen.store.Clear(screen.username)
				screen.list.UnselectAll()
				screen.refresh()
			}
		}, screen.window)
}

func (screen *Window) selectedReminder() (model.Reminder, bool) {
	if screen.selected < 0 || screen.selected >= len(screen.visible) {
		return model.Reminder{}, false
	}
	return screen.visible[screen.selected], true
}

// openDatePicker fills the date entry from a calendar popup.
func (screen *Window) openDatePicker() {
	picker := NewCalendar(screen.store, screen.username, nil)
	confirm := dialog.NewCustomConfirm("Select Date", "Select", "Cancel",
		picker.Object(), func(confirmed bool) {
			if confirmed {
				screen.date.SetText(picker.Selected().Format(dateLayout))
			}
		}, screen.window)
	confirm.Resize(fyne.NewSize(420, 480))
	confirm.Show()
}

// openCalendarView filters the list by dates picked on a calendar.
func (screen *Window) openCalendarView() {
	picker := NewCalendar(screen.store, screen.username, func(date time.Time) {
		screen.visible = screen.store.ForDate(screen.username, date)
		screen.search.SetText("Date: " + date.Format(dateLayout))
		screen.list.UnselectAll()
		screen.list.Refresh()
	})
	view := dialog.NewCustom("Calendar View", "Close", picker.Object(), screen.window)
	view.Resize(fyne.NewSize(420, 480))
	view.Show()
}

func parseDue(dateText, timeText string) (time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, dateText, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateText)
	}
	clock, err := time.Parse(timeLayout, timeText)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM:SS", timeText)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.Local), nil
}

func describe(record model.Reminder) string {
	status := ""
	if record.Done {
		status = "  [COMPLETED]"
	} else if record.Notified {
		status = "  [NOTIFIED]"
	}
	return fmt.Sprintf("[%s] %s - %s at %s%s",
		record.Category, record.Message, record.DueDate(), record.DueClock(), status)
}

func untilText(due, now time.Time) string {
	until := due.Sub(now)
	switch {
	case until > 24*time.Hour:
		return fmt.Sprintf("in %d day(s)", int(until.Hours()/24))
	case until > time.Hour:
		return fmt.Sprintf("in %d hour(s)", int(until.Hours()))
	case until > time.Minute:
		return fmt.Sprintf("in %d minute(s)", int(until.Minutes()))
	default:
		return "very soon"
	}
}
