package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSchedule(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		due  time.Time
		want error
	}{
		{"yesterday", now.AddDate(0, 0, -1), ErrPastDate},
		{"last month", now.AddDate(0, -1, 0), ErrPastDate},
		{"earlier today", now.Add(-time.Minute), ErrPastTime},
		{"exactly now", now, ErrPastTime},
		{"two minutes ahead", now.Add(2 * time.Minute), nil},
		{"tomorrow morning", time.Date(2026, time.March, 11, 8, 0, 0, 0, time.Local), nil},
		// A time earlier in the day is fine as long as the date is ahead.
		{"tomorrow before current clock", time.Date(2026, time.March, 11, 6, 0, 0, 0, time.Local), nil},
		{"far future", now.AddDate(5, 0, 0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.due, now)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestFarFuture(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 0, 0, time.Local)

	assert.False(t, FarFuture(now.Add(time.Hour), now))
	assert.False(t, FarFuture(now.AddDate(1, 11, 0), now))
	assert.False(t, FarFuture(now.AddDate(2, 0, 0), now), "exactly two years is still in range")
	assert.True(t, FarFuture(now.AddDate(2, 0, 1), now))
	assert.True(t, FarFuture(now.AddDate(10, 0, 0), now))
}
