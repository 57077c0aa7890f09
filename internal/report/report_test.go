package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/zikr/internal/counter"
	"github.com/runnerr0/zikr/internal/practice"
	"github.com/runnerr0/zikr/internal/storage"
	"github.com/runnerr0/zikr/internal/storage/storagetest"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func activeOn(t time.Time, daily int) *counter.Record {
	return &counter.Record{ID: "r", Goal: 100, DailyCount: daily, TotalCount: daily, LastUpdatedAt: t}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name    string
		records []*counter.Record
		window  int
		want    int
	}{
		{"no records", nil, 365, 0},
		{"today only", []*counter.Record{activeOn(daysAgo(0), 3)}, 365, 1},
		{
			"today and yesterday",
			[]*counter.Record{activeOn(daysAgo(0), 3), activeOn(daysAgo(1), 5)},
			365, 2,
		},
		{
			"gap two days ago",
			[]*counter.Record{activeOn(daysAgo(0), 3), activeOn(daysAgo(1), 5), activeOn(daysAgo(3), 5)},
			365, 2,
		},
		{
			"nothing today",
			[]*counter.Record{activeOn(daysAgo(1), 5), activeOn(daysAgo(2), 5)},
			365, 0,
		},
		{
			"zero daily count does not count",
			[]*counter.Record{activeOn(daysAgo(0), 0)},
			365, 0,
		},
		{
			"window caps the walk",
			[]*counter.Record{activeOn(daysAgo(0), 1), activeOn(daysAgo(1), 1), activeOn(daysAgo(2), 1)},
			2, 2,
		},
		{
			"non-positive window uses default",
			[]*counter.Record{activeOn(daysAgo(0), 1), activeOn(daysAgo(1), 1)},
			0, 2,
		},
		{
			"never updated",
			[]*counter.Record{{ID: "r", Goal: 100, DailyCount: 4}},
			365, 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeStreak(tc.records, now, tc.window))
		})
	}
}

func TestComputeStreak_SevenDays(t *testing.T) {
	var records []*counter.Record
	for i := 0; i < 7; i++ {
		records = append(records, activeOn(daysAgo(i).Add(-time.Hour), 1))
	}
	assert.Equal(t, 7, ComputeStreak(records, now, DefaultStreakWindow))
}

func TestComputeStreak_ComparesInNowLocation(t *testing.T) {
	pkt := time.FixedZone("PKT", 5*60*60)
	// 20:00 UTC on March 9 is already March 10 in PKT.
	rec := activeOn(time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC), 2)

	assert.Equal(t, 0, ComputeStreak([]*counter.Record{rec}, now, 365))
	assert.Equal(t, 1, ComputeStreak([]*counter.Record{rec}, now.In(pkt), 365))
}

func TestSumTotals(t *testing.T) {
	records := []*counter.Record{
		{DailyCount: 1, WeeklyCount: 2, MonthlyCount: 3, YearlyCount: 4, TotalCount: 5},
		{DailyCount: 0, WeeklyCount: 10, MonthlyCount: 20, YearlyCount: 30, TotalCount: 40},
	}
	assert.Equal(t, Totals{Daily: 1, Weekly: 12, Monthly: 23, Yearly: 34, Lifetime: 45}, SumTotals(records))
	assert.Equal(t, Totals{}, SumTotals(nil))
}

type fixture struct {
	store    storage.Store
	clock    time.Time
	records  *counter.Service
	registry *practice.Registry
	reporter *Reporter
}

func newFixture(t *testing.T, store storage.Store) *fixture {
	t.Helper()
	f := &fixture{store: store, clock: now}
	clock := func() time.Time { return f.clock }
	f.records = counter.NewService(store, nil, counter.WithClock(clock))
	f.registry = practice.NewRegistry(store, f.records, nil)
	f.reporter = NewReporter(f.records, f.registry, WithClock(clock))
	return f
}

func (f *fixture) tap(t *testing.T, key string, n int) {
	t.Helper()
	_, err := f.records.Increment(context.Background(), key, n)
	require.NoError(t, err)
}

func TestAllRecords_BuiltInsThenCustom(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, f.registry.Add(ctx, practice.Entry{ID: "c1", Name: "X", Goal: 50}))

	f.tap(t, practice.CustomKey("c1"), 2)
	f.tap(t, "tasbeeh_allahuAkbar", 1)
	f.tap(t, "astaghfar_record", 1)
	f.tap(t, "unlisted_key", 9)

	recs := f.reporter.AllRecords(ctx)
	require.Len(t, recs, 3)
	assert.Equal(t, "astaghfar_record", recs[0].ID)
	assert.Equal(t, "tasbeeh_allahuAkbar", recs[1].ID)
	assert.Equal(t, "custom_c1", recs[2].ID)
}

func TestAllRecords_EmptyStore(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	recs := f.reporter.AllRecords(context.Background())
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestAllRecords_ReadFailureIsEmpty(t *testing.T) {
	store := storagetest.New(nil)
	f := newFixture(t, store)
	f.tap(t, "durood_record", 1)

	store.FailGet = storagetest.ErrInjected
	assert.Empty(t, f.reporter.AllRecords(context.Background()))
}

func TestSummary(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	ctx := context.Background()

	for day := 0; day < 7; day++ {
		f.tap(t, "durood_record", 10)
		f.tap(t, "tasbeeh_subhanAllah", 1)
		if day < 6 {
			f.clock = f.clock.AddDate(0, 0, 1)
		}
	}

	s := f.reporter.Summary(ctx)
	require.Len(t, s.Records, 2)
	// Weekly never rolls: each tap is one day after the last anchor.
	assert.Equal(t, Totals{Daily: 11, Weekly: 77, Monthly: 77, Yearly: 77, Lifetime: 77}, s.Totals)
	// Each record only remembers its latest update, so the streak is today.
	assert.Equal(t, 1, s.Streak)
	assert.False(t, s.Milestone)
}

func TestSummary_Milestone(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore())
	keys := practice.BuiltInKeys()

	// One practice per day keeps a distinct last-update date for each.
	f.clock = now.AddDate(0, 0, -6)
	for _, key := range keys {
		f.tap(t, key, 1)
		f.clock = f.clock.AddDate(0, 0, 1)
	}
	f.clock = now

	s := f.reporter.Summary(context.Background())
	assert.Equal(t, 7, s.Streak)
	assert.True(t, s.Milestone)
}
