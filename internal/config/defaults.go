package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:           "sqlite",
			Path:              "~/.config/zikr",
			SQLiteFile:        "zikr.db",
			SQLiteJournalMode: "wal",
			Redis: RedisConfig{
				Addr:                "127.0.0.1:6379",
				Password:            "",
				DB:                  0,
				KeyPrefix:           "zikr:",
				DialTimeoutSeconds:  5,
				ReadTimeoutSeconds:  3,
				WriteTimeoutSeconds: 3,
			},
		},
		Logging: LoggingConfig{
			Level: "warn",
			File:  "",
		},
		Counter: CounterConfig{
			DefaultGoal:      100,
			Timezone:         "UTC",
			StreakWindowDays: 365,
		},
		Reminder: ReminderConfig{
			Title:                  "وُقُوفِ قلبی",
			Body:                   "دل میں اللہ کو یاد رکھیں",
			DefaultIntervalMinutes: 60,
		},
		Meditation: MeditationConfig{
			DefaultMinutes: 15,
		},
	}
}
