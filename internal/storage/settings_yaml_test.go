package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studydesk/internal/ui/preferences"
)

// redirectConfigDir points os.UserConfigDir at a temp directory.
func redirectConfigDir(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "darwin" {
		t.Skip("user config dir cannot be redirected via environment on darwin")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("AppData", dir)
	return dir
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	redirectConfigDir(t)

	settings, err := LoadSettings("StudyDeskTest")
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	redirectConfigDir(t)

	saved := preferences.Settings{
		WorkDuration:       50 * time.Minute,
		ShortBreakDuration: 10 * time.Minute,
		LongBreakDuration:  30 * time.Minute,
		SessionsUntilLong:  3,
		SoundEnabled:       false,
		Autostart:          true,
	}
	require.NoError(t, SaveSettings("StudyDeskTest", saved))

	loaded, err := LoadSettings("StudyDeskTest")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadSettingsIgnoresNonPositiveDurations(t *testing.T) {
	dir := redirectConfigDir(t)

	configDir := filepath.Join(dir, "StudyDeskTest")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	raw := []byte("work_minutes: 0\nshort_break_minutes: -5\nsound_enabled: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "settings.yaml"), raw, 0o644))

	settings, err := LoadSettings("StudyDeskTest")
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.WorkDuration, settings.WorkDuration)
	assert.Equal(t, defaults.ShortBreakDuration, settings.ShortBreakDuration)
	assert.True(t, settings.SoundEnabled)
	assert.False(t, settings.Autostart)
}

func TestLoadSettingsPartialFileKeepsDefaults(t *testing.T) {
	dir := redirectConfigDir(t)

	// A hand-edited file that only sets one key must not disturb the rest,
	// in particular sound stays on by default.
	configDir := filepath.Join(dir, "StudyDeskTest")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "settings.yaml"), []byte("work_minutes: 45\n"), 0o644))

	settings, err := LoadSettings("StudyDeskTest")
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, 45*time.Minute, settings.WorkDuration)
	assert.Equal(t, defaults.ShortBreakDuration, settings.ShortBreakDuration)
	assert.Equal(t, defaults.LongBreakDuration, settings.LongBreakDuration)
	assert.Equal(t, defaults.SessionsUntilLong, settings.SessionsUntilLong)
	assert.True(t, settings.SoundEnabled, "sound defaults on when the key is absent")
	assert.False(t, settings.Autostart)
}

func TestLoadSettingsMalformedYaml(t *testing.T) {
	dir := redirectConfigDir(t)

	configDir := filepath.Join(dir, "StudyDeskTest")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "settings.yaml"), []byte("work_minutes: [not a number"), 0o644))

	settings, err := LoadSettings("StudyDeskTest")
	assert.Error(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings, "defaults still come back on parse failure")
}
