package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategory is assigned to reminders created without a category.
const DefaultCategory = "General"

// Reminder is a one-shot alert owned by a single user.
//
// Done and Notified are independent flags: each transitions false to true at
// most once and is never reset, but both can be true at the same time.
type Reminder struct {
	ID        uuid.UUID
	Owner     string
	Message   string
	Category  string
	Due       time.Time
	Done      bool
	Notified  bool
	CreatedAt time.Time
}

// DueDate returns the calendar date portion of the due instant.
func (reminder Reminder) DueDate() string {
	return reminder.Due.Format("2006-01-02")
}

// DueClock returns the time-of-day portion of the due instant.
func (reminder Reminder) DueClock() string {
	return reminder.Due.Format("15:04:05")
}
