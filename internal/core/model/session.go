package model

import "time"

// SessionTypeWork is the session_type recorded for work intervals.
const SessionTypeWork = "work"

// SessionLogEntry is one persisted work interval, completed or skipped.
type SessionLogEntry struct {
	Username  string
	StartTime time.Time
	Minutes   int
	Type      string
	Completed bool
}

// UserStats aggregates a user's completed work sessions.
type UserStats struct {
	TotalSessions int
	TotalMinutes  int
	TodaySessions int
	WeekSessions  int
	WeekMinutes   int
	AvgMinutes    float64
}
