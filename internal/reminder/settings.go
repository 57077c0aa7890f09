// Package reminder keeps the periodic wuqoof reminder settings and runs the
// schedule that delivers them.
package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/zikr/internal/storage"
)

// SettingsKey is where the reminder settings are stored.
const SettingsKey = "wuqoof_settings"

// ErrInvalidInterval is returned for an interval that is not one of Intervals.
var ErrInvalidInterval = errors.New("unsupported reminder interval")

// Settings control the periodic reminder. Interval is in minutes.
type Settings struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"`
}

// Active reports whether reminders should fire.
func (s Settings) Active() bool {
	return s.Enabled && s.Interval > 0
}

// DefaultSettings is used until the user picks an interval.
func DefaultSettings() Settings {
	return Settings{Enabled: false, Interval: 60}
}

// Choice is a selectable reminder interval.
type Choice struct {
	Minutes int
	Label   string
}

// Intervals lists the selectable intervals. Zero turns reminders off.
var Intervals = []Choice{
	{0, "بند"},
	{30, "30 منٹ"},
	{60, "1 گھنٹہ"},
	{120, "2 گھنٹے"},
	{180, "3 گھنٹے"},
}

// ValidInterval reports whether minutes is one of Intervals.
func ValidInterval(minutes int) bool {
	for _, c := range Intervals {
		if c.Minutes == minutes {
			return true
		}
	}
	return false
}

// SettingsStore reads and writes Settings in a storage.Store.
type SettingsStore struct {
	store storage.Store
	log   logrus.FieldLogger
}

// NewSettingsStore creates a SettingsStore. A nil log discards output.
func NewSettingsStore(store storage.Store, log logrus.FieldLogger) *SettingsStore {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &SettingsStore{store: store, log: log}
}

// load reads the stored settings. A missing or undecodable value yields
// DefaultSettings; other store failures are returned.
func (s *SettingsStore) load(ctx context.Context) (Settings, error) {
	raw, err := s.store.Get(ctx, SettingsKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read reminder settings: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.WithField("error", err).Warn("invalid reminder settings")
		return DefaultSettings(), nil
	}
	if settings.Interval < 0 {
		settings.Interval = 0
	}
	return settings, nil
}

// Get returns the stored settings, or DefaultSettings if none are stored or
// they cannot be read.
func (s *SettingsStore) Get(ctx context.Context) Settings {
	settings, err := s.load(ctx)
	if err != nil {
		s.log.WithField("error", err).Warn("reading reminder settings")
		return DefaultSettings()
	}
	return settings
}

// Save persists settings.
func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode reminder settings: %w", err)
	}
	if err := s.store.Set(ctx, SettingsKey, string(data)); err != nil {
		return fmt.Errorf("save reminder settings: %w", err)
	}
	return nil
}

// Apply selects an interval. Reminders are enabled exactly when minutes is
// positive.
func (s *SettingsStore) Apply(ctx context.Context, minutes int) (Settings, error) {
	if !ValidInterval(minutes) {
		return Settings{}, fmt.Errorf("%w: %d", ErrInvalidInterval, minutes)
	}
	settings := Settings{Enabled: minutes > 0, Interval: minutes}
	if err := s.Save(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Toggle flips Enabled and keeps the interval. A failed read aborts without
// writing.
func (s *SettingsStore) Toggle(ctx context.Context) (Settings, error) {
	settings, err := s.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	settings.Enabled = !settings.Enabled
	if err := s.Save(ctx, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
