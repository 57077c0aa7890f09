package counter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/runnerr0/zikr/internal/storage"
)

var (
	// ErrInvalidAmount is returned when an increment is not a positive integer.
	ErrInvalidAmount = errors.New("increment amount must be positive")
	// ErrEmptyKey is returned for operations on an empty record key.
	ErrEmptyKey = errors.New("record key is empty")
	// ErrStorageRead wraps failures of the underlying store when reading.
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageWrite wraps failures of the underlying store when writing.
	ErrStorageWrite = errors.New("storage write failed")
)

// Defaults describe the metadata a record gets when it is first created.
type Defaults struct {
	DisplayName string
	ArabicText  string
	Goal        int
}

// DefaultsFunc looks up creation metadata for a key. ok is false when the key
// is unknown, in which case the key itself is used as the display name.
type DefaultsFunc func(ctx context.Context, key string) (d Defaults, ok bool)

// Service maintains one Record per key with bucketed rollover.
//
// Every operation is a read-modify-write of a single key with no locking.
// Concurrent Increment calls on the same key from independent callers are not
// serialized and may lose updates; callers are expected to issue one
// operation at a time per key.
type Service struct {
	store       storage.Store
	log         logrus.FieldLogger
	now         func() time.Time
	loc         *time.Location
	defaultGoal int
	defaults    DefaultsFunc
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that decides where a day begins.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithDefaultGoal sets the goal for keys without metadata. Non-positive goals
// are ignored.
func WithDefaultGoal(goal int) Option {
	return func(s *Service) {
		if goal > 0 {
			s.defaultGoal = goal
		}
	}
}

// WithDefaults installs the metadata lookup used on record creation.
func WithDefaults(fn DefaultsFunc) Option {
	return func(s *Service) { s.defaults = fn }
}

// NewService creates a Service over store. A nil log discards output.
func NewService(store storage.Store, log logrus.FieldLogger, opts ...Option) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Service{
		store:       store,
		log:         log,
		now:         time.Now,
		loc:         time.UTC,
		defaultGoal: DefaultGoal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone the service counts days in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today returns midnight of the current day in the service's location.
func (s *Service) Today() time.Time {
	return dateOf(s.now(), s.loc)
}

// load reads key. A missing or undecodable value yields (nil, nil); corrupt
// values are logged. Store failures are returned wrapped in ErrStorageRead.
func (s *Service) load(ctx context.Context, key string) (*Record, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	rec, err := decodeRecord(key, []byte(raw), s.Today())
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("discarding malformed record")
		return nil, nil
	}
	return rec, nil
}

// Get returns the record stored under key, or nil when it is absent,
// malformed or unreadable. Reads never modify the store.
func (s *Service) Get(ctx context.Context, key string) *Record {
	rec, err := s.load(ctx, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("reading record")
		return nil
	}
	return rec
}

func (s *Service) save(ctx context.Context, rec *Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	if err := s.store.Set(ctx, rec.ID, string(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

func (s *Service) newRecord(ctx context.Context, key string) *Record {
	rec := &Record{ID: key, DisplayName: key, Goal: s.defaultGoal}
	if s.defaults == nil {
		return rec
	}
	d, ok := s.defaults(ctx, key)
	if !ok {
		return rec
	}
	if d.DisplayName != "" {
		rec.DisplayName = d.DisplayName
	}
	rec.ArabicText = d.ArabicText
	if d.Goal > 0 {
		rec.Goal = d.Goal
	}
	return rec
}

// Increment adds amount to the lifetime total and every bucket of key, rolling
// buckets over first when their elapsed-day thresholds have passed. The record
// is created on first use.
//
// The updated record is written with a single Set, so on a write failure the
// previously stored record is left as it was and the error wraps
// ErrStorageWrite. A store read failure aborts without writing, since
// creating a fresh record would clobber the unread one.
func (s *Service) Increment(ctx context.Context, key string, amount int) (*Record, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	rec, err := s.load(ctx, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("increment aborted")
		return nil, fmt.Errorf("increment %s: %w", key, err)
	}

	today := s.Today()
	if rec == nil {
		rec = s.newRecord(ctx, key)
	} else {
		rec.rollover(today)
	}

	rec.TotalCount += amount
	rec.DailyCount += amount
	rec.WeeklyCount += amount
	rec.MonthlyCount += amount
	rec.YearlyCount += amount
	rec.LastUpdatedAt = s.now()
	rec.LastBucketAnchor = today

	if err := s.save(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("increment not persisted")
		return nil, fmt.Errorf("increment %s: %w", key, err)
	}

	s.log.WithFields(logrus.Fields{"key": key, "total": rec.TotalCount, "daily": rec.DailyCount}).Debug("incremented")
	return rec, nil
}

// ResetTotal sets the lifetime total of key back to zero and refreshes its
// update time. Bucketed counts are kept so periodic statistics survive
// starting a new lap. A missing record is left missing.
func (s *Service) ResetTotal(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	rec, err := s.load(ctx, key)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("reset aborted")
		return fmt.Errorf("reset %s: %w", key, err)
	}
	if rec == nil {
		return nil
	}

	rec.TotalCount = 0
	rec.LastUpdatedAt = s.now()

	if err := s.save(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("reset not persisted")
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Delete removes the record stored under key.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w: %v", key, ErrStorageWrite, err)
	}
	return nil
}
