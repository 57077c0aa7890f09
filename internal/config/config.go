package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/zikr/config.yaml"

// Config holds all zikr configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Logging    LoggingConfig    `yaml:"logging"`
	Counter    CounterConfig    `yaml:"counter"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	Meditation MeditationConfig `yaml:"meditation"`
}

type StorageConfig struct {
	Backend           string      `yaml:"backend"` // "sqlite", "redis", "memory"
	Path              string      `yaml:"path"`
	SQLiteFile        string      `yaml:"sqlite_file"`
	SQLiteJournalMode string      `yaml:"sqlite_journal_mode"`
	Redis             RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr                string `yaml:"addr"`
	Password            string `yaml:"password"`
	DB                  int    `yaml:"db"`
	KeyPrefix           string `yaml:"key_prefix"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type CounterConfig struct {
	DefaultGoal      int    `yaml:"default_goal"`
	Timezone         string `yaml:"timezone"`
	StreakWindowDays int    `yaml:"streak_window_days"`
}

type ReminderConfig struct {
	Title                  string `yaml:"title"`
	Body                   string `yaml:"body"`
	DefaultIntervalMinutes int    `yaml:"default_interval_minutes"`
}

type MeditationConfig struct {
	DefaultMinutes int `yaml:"default_minutes"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// A goal of zero would make every set complete instantly.
	if cfg.Counter.DefaultGoal <= 0 {
		cfg.Counter.DefaultGoal = DefaultConfig().Counter.DefaultGoal
	}
	if cfg.Counter.StreakWindowDays <= 0 {
		cfg.Counter.StreakWindowDays = DefaultConfig().Counter.StreakWindowDays
	}

	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// SQLitePath returns the expanded location of the SQLite database file.
func (c *Config) SQLitePath() (string, error) {
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// LogPath returns the expanded log file location, or "" when logging goes to
// stderr. Relative file names are placed under the storage path.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File == "" {
		return "", nil
	}
	if filepath.IsAbs(c.Logging.File) || c.Logging.File[0] == '~' {
		return ExpandPath(c.Logging.File)
	}
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Logging.File), nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
