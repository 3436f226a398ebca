package reminder

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"studydesk/internal/core/model"
)

// Store holds every user's reminders in one shared collection guarded by a
// single mutex. All access, including the checker scan, goes through it.
type Store struct {
	mu        sync.Mutex
	reminders []*model.Reminder
}

// NewStore creates an empty reminder store.
func NewStore() *Store {
	return &Store{}
}

// Add validates the schedule against the current clock and appends a new
// pending reminder. Far-future confirmation is the caller's job; see
// ValidateSchedule.
func (store *Store) Add(owner, message, category string, due time.Time) (model.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.Reminder{}, ErrEmptyMessage
	}
	if err := ValidateSchedule(due, time.Now()); err != nil {
		return model.Reminder{}, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		category = model.DefaultCategory
	}

	record := &model.Reminder{
		ID:        uuid.New(),
		Owner:     owner,
		Message:   message,
		Category:  category,
		Due:       due,
		CreatedAt: time.Now(),
	}

	store.mu.Lock()
	store.reminders = append(store.reminders, record)
	store.mu.Unlock()

	return *record, nil
}

// List returns the owner's reminders sorted by due instant.
func (store *Store) List(owner string) []model.Reminder {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.collectLocked(owner, func(*model.Reminder) bool { return true })
}

// Search returns the owner's reminders whose message, category, date or time
// contains keyword, case-insensitively.
func (store *Store) Search(owner, keyword string) []model.Reminder {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	store.mu.Lock()
	defer store.mu.Unlock()
	if keyword == "" {
		return store.collectLocked(owner, func(*model.Reminder) bool { return true })
	}
	return store.collectLocked(owner, func(record *model.Reminder) bool {
		return strings.Contains(strings.ToLower(record.Message), keyword) ||
			strings.Contains(strings.ToLower(record.Category), keyword) ||
			strings.Contains(record.DueDate(), keyword) ||
			strings.Contains(record.DueClock(), keyword)
	})
}

// ForDate returns the owner's reminders due on the given calendar day.
func (store *Store) ForDate(owner string, day time.Time) []model.Reminder {
	date := day.Format("2006-01-02")
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.collectLocked(owner, func(record *model.Reminder) bool {
		return record.DueDate() == date
	})
}

// DaySummary counts pending and completed reminders on a calendar day, for
// the calendar's per-day indicators.
func (store *Store) DaySummary(owner string, day time.Time) (pending, completed int) {
	date := day.Format("2006-01-02")
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, record := range store.reminders {
		if record.Owner != owner || record.DueDate() != date {
			continue
		}
		if record.Done {
			completed++
		} else {
			pending++
		}
	}
	return pending, completed
}

// MarkDone flips the done flag. It reports false when the id is unknown.
// Done is never reset afterwards.
func (store *Store) MarkDone(id uuid.UUID) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, record := range store.reminders {
		if record.ID == id {
			record.Done = true
			return true
		}
	}
	return false
}

// Delete removes a reminder by id.
func (store *Store) Delete(id uuid.UUID) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	for index, record := range store.reminders {
		if record.ID == id {
			store.reminders = append(store.reminders[:index], store.reminders[index+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every reminder owned by owner and returns how many went away.
func (store *Store) Clear(owner string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	kept := store.reminders[:0]
	removed := 0
	for _, record := range store.reminders {
		if record.Owner == owner {
			removed++
			continue
		}
		kept = append(kept, record)
	}
	store.reminders = kept
	return removed
}

// Count returns how many reminders the owner has.
func (store *Store) Count(owner string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, record := range store.reminders {
		if record.Owner == owner {
			count++
		}
	}
	return count
}

// MarkDue marks every reminder of owner whose due instant falls inside the
// trailing window ending at now, and returns copies of the newly marked
// records. Marking happens inside the lock, so a reminder fires at most once
// no matter how often it is scanned.
func (store *Store) MarkDue(owner string, now time.Time, window time.Duration) []model.Reminder {
	var fired []model.Reminder
	store.mu.Lock()
	for _, record := range store.reminders {
		if record.Owner != owner || record.Done || record.Notified {
			continue
		}
		elapsed := now.Sub(record.Due)
		if elapsed < 0 || elapsed >= window {
			continue
		}
		record.Notified = true
		fired = append(fired, *record)
	}
	store.mu.Unlock()
	return fired
}

// collectLocked copies matching reminders sorted by due instant.
func (store *Store) collectLocked(owner string, match func(*model.Reminder) bool) []model.Reminder {
	var records []model.Reminder
	for _, record := range store.reminders {
		if record.Owner == owner && match(record) {
			records = append(records, *record)
		}
	}
	sort.Slice(records, func(left, right int) bool {
		return records[left].Due.Before(records[right].Due)
	})
	return records
}
