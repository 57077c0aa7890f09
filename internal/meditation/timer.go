// Package meditation runs the muraqaba countdown.
package meditation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned for a duration that is not a positive
// number of minutes.
var ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

// Preset is a selectable session length.
type Preset struct {
	Minutes int
	Label   string
}

// Presets lists the offered session lengths.
var Presets = []Preset{
	{15, "15 منٹ"},
	{30, "30 منٹ"},
	{45, "45 منٹ"},
	{60, "1 گھنٹہ"},
}

// ParseMinutes parses a user-entered session length.
func ParseMinutes(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	return n, nil
}

// FormatClock renders a remaining duration as MM:SS. Minutes are not capped
// at 59, so an hour shows as 60:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Timer counts a session down one second at a time.
type Timer struct {
	interval time.Duration
}

// Option configures a Timer.
type Option func(*Timer)

// WithTickInterval changes how much wall time passes per counted second.
func WithTickInterval(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// NewTimer creates a Timer that ticks once per second unless overridden.
func NewTimer(opts ...Option) *Timer {
	t := &Timer{interval: time.Second}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run counts d down, calling onTick with the remaining time after every
// second. It returns 0 and nil when the session completes, or the time left
// and the context error when cancelled.
func (t *Timer) Run(ctx context.Context, d time.Duration, onTick func(remaining time.Duration)) (time.Duration, error) {
	if d < time.Second {
		return 0, fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}
	remaining := d.Truncate(time.Second)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return remaining, err
		}
		select {
		case <-ctx.Done():
			return remaining, ctx.Err()
		case <-ticker.C:
			remaining -= time.Second
			if onTick != nil {
				onTick(remaining)
			}
		}
	}
	return 0, nil
}
