package reminders

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"studydesk/internal/core/reminder"
)

// Calendar is a month-grid date picker with per-day reminder indicators.
type Calendar struct {
	store    *reminder.Store
	owner    string
	display  time.Time
	selected time.Time
	onSelect func(time.Time)
	box      *fyne.Container
}

// NewCalendar creates a calendar for owner, starting at the current month.
func NewCalendar(store *reminder.Store, owner string, onSelect func(time.Time)) *Calendar {
	now := time.Now()
	calendar := &Calendar{
		store:    store,
		owner:    owner,
		display:  time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		selected: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		onSelect: onSelect,
		box:      container.NewVBox(),
	}
	calendar.Refresh()
	return calendar
}

// Object returns the renderable calendar.
func (calendar *Calendar) Object() fyne.CanvasObject {
	return calendar.box
}

// Selected returns the picked date.
func (calendar *Calendar) Selected() time.Time {
	return calendar.selected
}

// Refresh rebuilds the grid, picking up reminder indicator changes.
func (calendar *Calendar) Refresh() {
	header := container.NewBorder(nil, nil,
		widget.NewButton("<", func() {
			calendar.display = calendar.display.AddDate(0, -1, 0)
			calendar.Refresh()
		}),
		widget.NewButton(">", func() {
			calendar.display = calendar.display.AddDate(0, 1, 0)
			calendar.Refresh()
		}),
		widget.NewLabelWithStyle(calendar.display.Format("January 2006"),
			fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
	)

	cells := []fyne.CanvasObject{}
	for _, name := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		cells = append(cells, widget.NewLabelWithStyle(name, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}))
	}

	// Monday-first offset of the 1st of the month.
	offset := (int(calendar.display.Weekday()) + 6) % 7
	for index := 0; index < offset; index++ {
		cells = append(cells, widget.NewLabel(""))
	}

	daysInMonth := calendar.display.AddDate(0, 1, -1).Day()
	today := dayOf(time.Now())
	for day := 1; day <= daysInMonth; day++ {
		date := calendar.display.AddDate(0, 0, day-1)
		button := widget.NewButton(calendar.dayText(date, today), func() {
			calendar.selected = date
			calendar.Refresh()
			if calendar.onSelect != nil {
				calendar.onSelect(date)
			}
		})
		if date.Equal(calendar.selected) {
			button.Importance = widget.HighImportance
		} else if date.Equal(today) {
			button.Importance = widget.MediumImportance
		}
		cells = append(cells, button)
	}

	legend := widget.NewLabelWithStyle("• pending   ✓ done   ! overdue",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	calendar.box.Objects = []fyne.CanvasObject{
		header,
		container.NewGridWithColumns(7, cells...),
		legend,
	}
	calendar.box.Refresh()
}

// dayText annotates the day number with this date's reminder status.
func (calendar *Calendar) dayText(date, today time.Time) string {
	pending, completed := calendar.store.DaySummary(calendar.owner, date)
	switch {
	case pending == 0 && completed == 0:
		return fmt.Sprintf("%d", date.Day())
	case pending > 0 && date.Before(today):
		return fmt.Sprintf("%d !%d", date.Day(), pending)
	case pending > 0 && completed > 0:
		return fmt.Sprintf("%d •%d ✓%d", date.Day(), pending, completed)
	case pending > 0:
		return fmt.Sprintf("%d •%d", date.Day(), pending)
	default:
		return fmt.Sprintf("%d ✓%d", date.Day(), completed)
	}
}

func dayOf(instant time.Time) time.Time {
	year, month, day := instant.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, instant.Location())
}
