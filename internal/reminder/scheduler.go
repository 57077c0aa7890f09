package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// notifyTimeout bounds a single delivery.
const notifyTimeout = 30 * time.Second

// Scheduler replaces the reminder schedule.
type Scheduler interface {
	Schedule(settings Settings) error
	Stop()
}

var _ Scheduler = (*CronScheduler)(nil)

// CronScheduler fires a Message on a fixed interval using robfig/cron.
type CronScheduler struct {
	cron     *cron.Cron
	notifier Notifier
	msg      Message
	log      logrus.FieldLogger

	mu      sync.Mutex
	entry   cron.EntryID
	running bool
}

// NewCronScheduler creates a stopped scheduler. A nil log discards output.
func NewCronScheduler(notifier Notifier, msg Message, log logrus.FieldLogger) *CronScheduler {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &CronScheduler{
		cron:     cron.New(),
		notifier: notifier,
		msg:      msg,
		log:      log,
	}
}

// Schedule drops any existing reminder and, when settings are active,
// registers one that repeats every settings.Interval minutes.
func (s *CronScheduler) Schedule(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entry != 0 {
		s.cron.Remove(s.entry)
		s.entry = 0
	}
	if !settings.Active() {
		s.log.Debug("reminders off")
		return nil
	}

	cronExpr := fmt.Sprintf("@every %dm", settings.Interval)
	id, err := s.cron.AddFunc(cronExpr, s.fire)
	if err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}
	s.entry = id
	s.log.WithField("interval_minutes", settings.Interval).Info("reminder scheduled")
	return nil
}

// Start begins firing scheduled reminders.
func (s *CronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
}

// Stop halts the schedule and waits for a running delivery to finish.
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Next returns when the reminder fires next, or the zero time if nothing is
// scheduled or the scheduler is stopped.
func (s *CronScheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Scheduled reports whether a reminder is registered.
func (s *CronScheduler) Scheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry != 0
}

func (s *CronScheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, s.msg); err != nil {
		s.log.WithField("error", err).Warn("reminder not delivered")
	}
}
