package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studydesk/internal/core/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "studydesk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "studydesk.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.RegisterUser("ada", "lovelace"))
	require.NoError(t, store.Close())

	// Reopen: the schema already exists and the data survives.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	assert.NoError(t, store.Authenticate("ada", "lovelace"))
}

func TestRegisterUserValidation(t *testing.T) {
	store := openTestStore(t)

	assert.Error(t, store.RegisterUser("", "password"))
	assert.Error(t, store.RegisterUser("ada", ""))
	assert.Error(t, store.RegisterUser("ab", "password"), "short username")
	assert.Error(t, store.RegisterUser("ada", "abc"), "short password")

	require.NoError(t, store.RegisterUser("ada", "lovelace"))
	assert.ErrorIs(t, store.RegisterUser("ada", "different"), ErrUsernameTaken)
}

func TestAuthenticate(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RegisterUser("ada", "lovelace"))

	assert.NoError(t, store.Authenticate("ada", "lovelace"))
	assert.ErrorIs(t, store.Authenticate("ada", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, store.Authenticate("nobody", "lovelace"), ErrInvalidCredentials)
	assert.Error(t, store.Authenticate("", ""))
}

func TestPasswordsAreNotStoredInClear(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RegisterUser("ada", "lovelace"))

	var hash string
	err := store.db.QueryRow(`SELECT password_hash FROM users WHERE username = ?`, "ada").Scan(&hash)
	require.NoError(t, err)
	assert.NotEqual(t, "lovelace", hash)
	assert.NotContains(t, hash, "lovelace")
}

func TestSaveSessionUpdatesTotalsOnlyForCompletedWork(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RegisterUser("ada", "lovelace"))

	require.NoError(t, store.SaveSession("ada", 25, model.SessionTypeWork, true))
	require.NoError(t, store.SaveSession("ada", 25, model.SessionTypeWork, false))
	require.NoError(t, store.SaveSession("ada", 5, "short_break", true))

	stats, err := store.UserStats("ada")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions, "only completed work sessions count")
	assert.Equal(t, 25, stats.TotalMinutes)
	assert.Equal(t, 1, stats.TodaySessions)
	assert.Equal(t, 1, stats.WeekSessions)
	assert.Equal(t, 25, stats.WeekMinutes)
	assert.InDelta(t, 25.0, stats.AvgMinutes, 0.001)
}

func TestSaveSessionRejectsBadInput(t *testing.T) {
	store := openTestStore(t)

	assert.Error(t, store.SaveSession("", 25, model.SessionTypeWork, true))
	assert.Error(t, store.SaveSession("ada", 0, model.SessionTypeWork, true))
	assert.Error(t, store.SaveSession("ada", -5, model.SessionTypeWork, true))
}

func TestUserStatsUnknownUser(t *testing.T) {
	store := openTestStore(t)

	_, err := store.UserStats("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionHistory(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RegisterUser("ada", "lovelace"))

	for session := 0; session < 3; session++ {
		require.NoError(t, store.SaveSession("ada", 25, model.SessionTypeWork, true))
	}
	require.NoError(t, store.SaveSession("ada", 25, model.SessionTypeWork, false))

	entries, err := store.SessionHistory("ada", 0)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for _, entry := range entries {
		assert.Equal(t, "ada", entry.Username)
		assert.Equal(t, 25, entry.Minutes)
		assert.Equal(t, model.SessionTypeWork, entry.Type)
		assert.False(t, entry.StartTime.IsZero())
	}

	limited, err := store.SessionHistory("ada", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	empty, err := store.SessionHistory("nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
