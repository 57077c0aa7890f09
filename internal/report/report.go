// Package report aggregates counter records into totals and an activity
// streak.
package report

import (
	"context"
	"time"

	"github.com/runnerr0/zikr/internal/counter"
	"github.com/runnerr0/zikr/internal/practice"
)

const (
	// DefaultStreakWindow is how many days back a streak is searched.
	DefaultStreakWindow = 365
	// StreakMilestone is the streak length that earns a congratulation.
	StreakMilestone = 7
)

// RecordReader reads a single record. *counter.Service satisfies it.
type RecordReader interface {
	Get(ctx context.Context, key string) *counter.Record
}

// EntryLister lists custom practices. *practice.Registry satisfies it.
type EntryLister interface {
	List(ctx context.Context) []practice.Entry
}

// Totals are the bucket sums across records. Each field is summed on its own.
type Totals struct {
	Daily    int `json:"daily"`
	Weekly   int `json:"weekly"`
	Monthly  int `json:"monthly"`
	Yearly   int `json:"yearly"`
	Lifetime int `json:"lifetime"`
}

// Summary is everything the records view shows.
type Summary struct {
	Records   []*counter.Record `json:"-"`
	Totals    Totals            `json:"totals"`
	Streak    int               `json:"streak"`
	Milestone bool              `json:"milestone"`
}

// Reporter reads every known record for reporting. It never writes.
type Reporter struct {
	records    RecordReader
	registry   EntryLister
	now        func() time.Time
	loc        *time.Location
	windowDays int
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// WithLocation sets the time zone days are compared in.
func WithLocation(loc *time.Location) Option {
	return func(r *Reporter) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// WithStreakWindow limits how many days the streak search covers.
func WithStreakWindow(days int) Option {
	return func(r *Reporter) {
		if days > 0 {
			r.windowDays = days
		}
	}
}

// NewReporter creates a Reporter over the counter records and custom registry.
func NewReporter(records RecordReader, registry EntryLister, opts ...Option) *Reporter {
	r := &Reporter{
		records:    records,
		registry:   registry,
		now:        time.Now,
		loc:        time.UTC,
		windowDays: DefaultStreakWindow,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AllRecords loads the built-in records in display order followed by one
// record per registered custom practice. Missing records are skipped.
func (r *Reporter) AllRecords(ctx context.Context) []*counter.Record {
	keys := practice.BuiltInKeys()
	if r.registry != nil {
		for _, e := range r.registry.List(ctx) {
			keys = append(keys, practice.CustomKey(e.ID))
		}
	}

	out := make([]*counter.Record, 0, len(keys))
	for _, key := range keys {
		if rec := r.records.Get(ctx, key); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// Summary loads all records and derives totals and the current streak.
func (r *Reporter) Summary(ctx context.Context) Summary {
	records := r.AllRecords(ctx)
	streak := ComputeStreak(records, r.now().In(r.loc), r.windowDays)
	return Summary{
		Records:   records,
		Totals:    SumTotals(records),
		Streak:    streak,
		Milestone: streak >= StreakMilestone,
	}
}

// SumTotals adds up every bucket across records.
func SumTotals(records []*counter.Record) Totals {
	var t Totals
	for _, rec := range records {
		t.Daily += rec.DailyCount
		t.Weekly += rec.WeeklyCount
		t.Monthly += rec.MonthlyCount
		t.Yearly += rec.YearlyCount
		t.Lifetime += rec.TotalCount
	}
	return t
}

// ComputeStreak counts consecutive days with activity, walking back from the
// day of now. A day has activity when some record was last updated on it with
// a positive daily count. Days are compared in now's location. The walk ends
// at the first day without activity, and no activity today means no streak.
// windowDays caps the walk; non-positive values use DefaultStreakWindow.
func ComputeStreak(records []*counter.Record, now time.Time, windowDays int) int {
	if len(records) == 0 {
		return 0
	}
	if windowDays <= 0 {
		windowDays = DefaultStreakWindow
	}

	active := make(map[civilDate]bool, len(records))
	for _, rec := range records {
		if rec.DailyCount > 0 && !rec.LastUpdatedAt.IsZero() {
			active[dateIn(rec.LastUpdatedAt, now.Location())] = true
		}
	}

	streak := 0
	for i := 0; i < windowDays; i++ {
		if !active[dateIn(now.AddDate(0, 0, -i), now.Location())] {
			break
		}
		streak++
	}
	return streak
}

type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateIn(t time.Time, loc *time.Location) civilDate {
	y, m, d := t.In(loc).Date()
	return civilDate{y, m, d}
}
