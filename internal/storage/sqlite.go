package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"studydesk/internal/core/model"
)

var (
	// ErrUsernameTaken indicates a registration with an existing username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrInvalidCredentials indicates a failed login. The message is the same
	// for an unknown user and a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound indicates a stats query for a missing user.
	ErrUserNotFound = errors.New("user not found")
)

const defaultHistoryLimit = 50

// Store is the SQLite-backed persistence layer for users and session logs.
type Store struct {
	db *sql.DB
}

// DefaultDatabasePath returns the database location under the user config dir.
func DefaultDatabasePath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, "studydesk.db"), nil
}

// Open connects to the SQLite database at path, creating the file and its
// schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (store *Store) Close() error {
	return store.db.Close()
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			total_sessions INTEGER DEFAULT 0,
			total_minutes INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS session_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			start_time TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			duration_minutes INTEGER NOT NULL,
			session_type TEXT DEFAULT 'work',
			completed BOOLEAN DEFAULT 1,
			FOREIGN KEY (username) REFERENCES users (username)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_session_logs_username ON session_logs(username)`,
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// RegisterUser creates a new account with a salted one-way password hash.
func (store *Store) RegisterUser(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(password) < 4 {
		return errors.New("password must be at least 4 characters")
	}

	var exists int
	err := store.db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = ?`, username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists > 0 {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := store.db.Exec(
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, string(hash),
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Authenticate verifies a login by recomputing the password hash.
func (store *Store) Authenticate(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("username and password are required")
	}

	var hash string
	err := store.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, username).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidCredentials
	}
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// SaveSession appends one session log entry. A completed work session also
// bumps the user's cumulative counters.
func (store *Store) SaveSession(username string, minutes int, sessionType string, completed bool) error {
	if strings.TrimSpace(username) == "" || minutes <= 0 {
		return errors.New("invalid session data")
	}

	tx, err := store.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO session_logs (username, duration_minutes, session_type, completed) VALUES (?, ?, ?, ?)`,
		username, minutes, sessionType, completed,
	); err != nil {
		return fmt.Errorf("insert session log: %w", err)
	}

	if completed && sessionType == model.SessionTypeWork {
		if _, err := tx.Exec(
			`UPDATE users SET total_sessions = total_sessions + 1, total_minutes = total_minutes + ? WHERE username = ?`,
			minutes, username,
		); err != nil {
			return fmt.Errorf("update user stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

// UserStats aggregates cumulative, daily and weekly completed work sessions.
func (store *Store) UserStats(username string) (model.UserStats, error) {
	var stats model.UserStats

	err := store.db.QueryRow(
		`SELECT total_sessions, total_minutes FROM users WHERE username = ?`,
		username,
	).Scan(&stats.TotalSessions, &stats.TotalMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserStats{}, ErrUserNotFound
	}
	if err != nil {
		return model.UserStats{}, fmt.Errorf("read user totals: %w", err)
	}

	err = store.db.QueryRow(
		`SELECT COUNT(*) FROM session_logs
		 WHERE username = ? AND session_type = 'work'
		 AND DATE(start_time) = DATE('now') AND completed = 1`,
		username,
	).Scan(&stats.TodaySessions)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("count today's sessions: %w", err)
	}

	err = store.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0) FROM session_logs
		 WHERE username = ? AND session_type = 'work'
		 AND DATE(start_time) >= DATE('now', 'weekday 0', '-6 days') AND completed = 1`,
		username,
	).Scan(&stats.WeekSessions, &stats.WeekMinutes)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("count week sessions: %w", err)
	}

	err = store.db.QueryRow(
		`SELECT COALESCE(AVG(duration_minutes), 0) FROM session_logs
		 WHERE username = ? AND session_type = 'work' AND completed = 1`,
		username,
	).Scan(&stats.AvgMinutes)
	if err != nil {
		return model.UserStats{}, fmt.Errorf("average session duration: %w", err)
	}

	return stats, nil
}

// SessionHistory returns the user's most recent session log entries, newest
// first. A non-positive limit falls back to the default of 50.
func (store *Store) SessionHistory(username string, limit int) ([]model.SessionLogEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := store.db.Query(
		`SELECT start_time, duration_minutes, session_type, completed FROM session_logs
		 WHERE username = ? ORDER BY start_time DESC LIMIT ?`,
		username, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var entries []model.SessionLogEntry
	for rows.Next() {
		entry := model.SessionLogEntry{Username: username}
		if err := rows.Scan(&entry.StartTime, &entry.Minutes, &entry.Type, &entry.Completed); err != nil {
			return nil, fmt.Errorf("scan session log: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session history: %w", err)
	}
	return entries, nil
}
