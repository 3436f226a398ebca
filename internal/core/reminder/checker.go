package reminder

import (
	"log"
	"sync"
	"time"

	"studydesk/internal/core/model"
)

// CheckerConfig contains runtime options for Checker.
type CheckerConfig struct {
	// Interval between scans, one second by default.
	Interval time.Duration
	// Window is the trailing span a due instant may fall in and still fire,
	// sized to tolerate scheduling jitter between scans.
	Window time.Duration
	// Buffer sizes the fired-event channel.
	Buffer int
}

// Checker polls the store and fires each due reminder exactly once. Marking
// happens synchronously under the store lock; delivery to the UI goes through
// a buffered channel and is best-effort.
type Checker struct {
	store   *Store
	owner   string
	options CheckerConfig
	fired   chan model.Reminder
	mu      sync.Mutex
	running bool
	stopped bool
	stopCh  chan struct{}
}

// NewChecker creates a checker scanning owner's reminders in store.
func NewChecker(store *Store, owner string, options CheckerConfig) *Checker {
	if options.Interval <= 0 {
		options.Interval = time.Second
	}
	if options.Window <= 0 {
		options.Window = 3 * time.Second
	}
	if options.Buffer <= 0 {
		options.Buffer = 8
	}
	return &Checker{
		store:   store,
		owner:   owner,
		options: options,
		fired:   make(chan model.Reminder, options.Buffer),
	}
}

// Fired returns the channel of newly fired reminders. It is closed when the
// checker stops.
func (checker *Checker) Fired() <-chan model.Reminder {
	return checker.fired
}

// Start launches the polling loop; no-op when already running or after Stop.
func (checker *Checker) Start() {
	checker.mu.Lock()
	if checker.running || checker.stopped {
		checker.mu.Unlock()
		return
	}
	checker.running = true
	checker.stopCh = make(chan struct{})
	stopCh := checker.stopCh
	checker.mu.Unlock()

	go checker.run(stopCh)
}

// Stop ends the checker for good; the loop observes it within one scan
// interval and closes the fired channel on the way out. Idempotent, and the
// checker cannot be started again afterwards.
func (checker *Checker) Stop() {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	if checker.stopped {
		return
	}
	checker.stopped = true
	if checker.running {
		checker.running = false
		close(checker.stopCh)
		return
	}
	// Never ran, so no loop will close the channel for us.
	close(checker.fired)
}

func (checker *Checker) run(stopCh <-chan struct{}) {
	defer close(checker.fired)

	ticker := time.NewTicker(checker.options.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case scanTime := <-ticker.C:
			checker.scan(scanTime)
		}
	}
}

func (checker *Checker) scan(now time.Time) {
	for _, record := range checker.store.MarkDue(checker.owner, now, checker.options.Window) {
		select {
		case checker.fired <- record:
		default:
			// Marked but undeliverable; alerting is best-effort.
			log.Printf("reminder: dropped alert for %q, consumer too slow", record.Message)
		}
	}
}
