package counter

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultGoal is the set size used when a practice has no valid goal.
const DefaultGoal = 100

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Rollover thresholds in elapsed days since the bucket anchor.
const (
	dailyRolloverDays   = 1
	weeklyRolloverDays  = 7
	monthlyRolloverDays = 30
	yearlyRolloverDays  = 365
)

// Record holds the statistics of one countable practice. ID doubles as the
// storage key.
type Record struct {
	ID          string
	DisplayName string
	ArabicText  string
	Goal        int

	TotalCount   int
	DailyCount   int
	WeeklyCount  int
	MonthlyCount int
	YearlyCount  int

	LastUpdatedAt time.Time
	// LastBucketAnchor is a date; only its year, month and day are meaningful.
	LastBucketAnchor time.Time
}

// goal is Goal, or DefaultGoal when Goal is not positive.
func (r *Record) goal() int {
	if r.Goal <= 0 {
		return DefaultGoal
	}
	return r.Goal
}

// CompletedSets is the number of full goals reached today.
func (r *Record) CompletedSets() int {
	return r.DailyCount / r.goal()
}

// Progress is the fraction of the current set done today, in [0, 1).
func (r *Record) Progress() float64 {
	g := r.goal()
	return float64(r.DailyCount%g) / float64(g)
}

// recordJSON is the persisted shape. Field names match the records written by
// the mobile app so existing data stays readable.
type recordJSON struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ArabicText    string `json:"arabicText,omitempty"`
	Count         *int   `json:"count"`
	Goal          *int   `json:"goal"`
	LastUpdated   string `json:"lastUpdated"`
	DailyCount    *int   `json:"dailyCount"`
	WeeklyCount   *int   `json:"weeklyCount"`
	MonthlyCount  *int   `json:"monthlyCount"`
	YearlyCount   *int   `json:"yearlyCount"`
	LastResetDate string `json:"lastResetDate"`
}

func encodeRecord(r *Record) ([]byte, error) {
	w := recordJSON{
		ID:            r.ID,
		Name:          r.DisplayName,
		ArabicText:    r.ArabicText,
		Count:         &r.TotalCount,
		Goal:          &r.Goal,
		LastUpdated:   r.LastUpdatedAt.UTC().Format(timestampLayout),
		DailyCount:    &r.DailyCount,
		WeeklyCount:   &r.WeeklyCount,
		MonthlyCount:  &r.MonthlyCount,
		YearlyCount:   &r.YearlyCount,
		LastResetDate: r.LastBucketAnchor.Format(dateLayout),
	}
	return json.Marshal(w)
}

// decodeRecord parses a stored record and applies every default in one place:
// missing or negative counts become 0, a missing or non-positive goal becomes
// DefaultGoal, a missing anchor becomes today. The record id is always key;
// the stored id may be a short practice id written by older clients.
func decodeRecord(key string, data []byte, today time.Time) (*Record, error) {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", key, err)
	}

	r := &Record{
		ID:           key,
		DisplayName:  w.Name,
		ArabicText:   w.ArabicText,
		Goal:         positiveOr(w.Goal, DefaultGoal),
		TotalCount:   nonNegative(w.Count),
		DailyCount:   nonNegative(w.DailyCount),
		WeeklyCount:  nonNegative(w.WeeklyCount),
		MonthlyCount: nonNegative(w.MonthlyCount),
		YearlyCount:  nonNegative(w.YearlyCount),
	}
	if r.DisplayName == "" {
		r.DisplayName = r.ID
	}

	if w.LastUpdated != "" {
		ts, err := time.Parse(time.RFC3339Nano, w.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("decode record %s: lastUpdated: %w", key, err)
		}
		r.LastUpdatedAt = ts
	}

	r.LastBucketAnchor = today
	if w.LastResetDate != "" {
		anchor, err := time.ParseInLocation(dateLayout, w.LastResetDate, today.Location())
		if err != nil {
			return nil, fmt.Errorf("decode record %s: lastResetDate: %w", key, err)
		}
		r.LastBucketAnchor = anchor
	}

	return r, nil
}

func nonNegative(v *int) int {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

func positiveOr(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}

// dateOf truncates t to midnight of its calendar day in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// elapsedDays counts whole calendar days from anchor to today. A future
// anchor yields 0.
func elapsedDays(anchor, today time.Time) int {
	ay, am, ad := anchor.Date()
	ty, tm, td := today.Date()
	a := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// rollover zeroes every bucket whose threshold has been crossed. The checks
// are independent.
func (r *Record) rollover(today time.Time) {
	days := elapsedDays(r.LastBucketAnchor, today)
	if days >= dailyRolloverDays {
		r.DailyCount = 0
	}
	if days >= weeklyRolloverDays {
		r.WeeklyCount = 0
	}
	if days >= monthlyRolloverDays {
		r.MonthlyCount = 0
	}
	if days >= yearlyRolloverDays {
		r.YearlyCount = 0
	}
}
