package reminder

import (
	"errors"
	"time"
)

var (
	// ErrEmptyMessage indicates a reminder without text.
	ErrEmptyMessage = errors.New("reminder message is required")
	// ErrPastDate indicates a due date strictly before today.
	ErrPastDate = errors.New("cannot create a reminder for a past date")
	// ErrPastTime indicates a due time today that is not after the clock.
	ErrPastTime = errors.New("cannot create a reminder for a past time")
)

// farFutureYears is the horizon beyond which creation needs confirmation.
const farFutureYears = 2

// ValidateSchedule rejects due instants that already passed: a date before
// today, or today's date with a time not strictly after now.
func ValidateSchedule(due, now time.Time) error {
	dueDay := dayOf(due)
	today := dayOf(now)
	if dueDay.Before(today) {
		return ErrPastDate
	}
	if dueDay.Equal(today) && !due.After(now) {
		return ErrPastTime
	}
	return nil
}

// FarFuture reports whether the due date is more than two years out. Such
// reminders are allowed after explicit confirmation.
func FarFuture(due, now time.Time) bool {
	return dayOf(due).After(dayOf(now).AddDate(farFutureYears, 0, 0))
}

func dayOf(instant time.Time) time.Time {
	year, month, day := instant.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, instant.Location())
}
