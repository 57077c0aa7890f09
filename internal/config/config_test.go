package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "~/.config/zikr", cfg.Storage.Path)
	assert.Equal(t, "zikr.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "wal", cfg.Storage.SQLiteJournalMode)
	assert.Equal(t, "127.0.0.1:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, "zikr:", cfg.Storage.Redis.KeyPrefix)
	assert.Equal(t, 5, cfg.Storage.Redis.DialTimeoutSeconds)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
	assert.Equal(t, 100, cfg.Counter.DefaultGoal)
	assert.Equal(t, "UTC", cfg.Counter.Timezone)
	assert.Equal(t, 365, cfg.Counter.StreakWindowDays)
	assert.Equal(t, 60, cfg.Reminder.DefaultIntervalMinutes)
	assert.NotEmpty(t, cfg.Reminder.Title)
	assert.Equal(t, 15, cfg.Meditation.DefaultMinutes)
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  backend: "redis"
  redis:
    addr: "10.0.0.5:6380"
    db: 2
counter:
  default_goal: 33
  timezone: "Asia/Karachi"
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "10.0.0.5:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, 33, cfg.Counter.DefaultGoal)
	assert.Equal(t, "Asia/Karachi", cfg.Counter.Timezone)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values remain defaults
	assert.Equal(t, "zikr:", cfg.Storage.Redis.KeyPrefix)
	assert.Equal(t, "zikr.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, 365, cfg.Counter.StreakWindowDays)
}

func TestLoadCoercesNonPositiveGoal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
counter:
  default_goal: 0
  streak_window_days: -3
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(yamlContent), 0644))

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Counter.DefaultGoal)
	assert.Equal(t, 365, cfg.Counter.StreakWindowDays)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load("/tmp/nonexistent_path_12345/config.yaml")
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 100, cfg.Counter.DefaultGoal)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Reminder.Title, cfg2.Reminder.Title)
	assert.Equal(t, cfg.Storage.Redis.Addr, cfg2.Storage.Redis.Addr)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
meditation:
  default_minutes: 20
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Meditation.DefaultMinutes)
	// Other fields remain defaults
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestSQLitePathJoinsDirAndFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/var/lib/zikr"
	cfg.Storage.SQLiteFile = "counts.db"

	path, err := cfg.SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/zikr/counts.db", path)
}

func TestSQLitePathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	path, err := DefaultConfig().SQLitePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "zikr", "zikr.db"), path)
}

func TestLogPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data"

	path, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Empty(t, path, "empty file means stderr")

	cfg.Logging.File = "zikr.log"
	path, err = cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/zikr.log", path)

	cfg.Logging.File = "/tmp/other.log"
	path, err = cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.log", path)
}
