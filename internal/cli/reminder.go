package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/runnerr0/zikr/internal/reminder"
)

func printSettings(globals *GlobalFlags, s reminder.Settings) error {
	if wantJSON(globals) {
		return printJSON(s)
	}
	if !s.Active() {
		fmt.Printf("Reminders:     off (interval %s)\n", intervalLabel(s.Interval))
		return nil
	}
	fmt.Printf("Reminders:     every %s\n", intervalLabel(s.Interval))
	return nil
}

func intervalLabel(minutes int) string {
	for _, c := range reminder.Intervals {
		if c.Minutes == minutes && minutes > 0 {
			return fmt.Sprintf("%d min (%s)", minutes, c.Label)
		}
	}
	return fmt.Sprintf("%d min", minutes)
}

// Execute implements the go-flags Commander interface for ReminderShowCommand.
func (c *ReminderShowCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *ReminderShowCommand) executeWithEnv(e *env) error {
	return printSettings(c.globals, e.settings.Get(context.Background()))
}

// Execute implements the go-flags Commander interface for ReminderSetCommand.
func (c *ReminderSetCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *ReminderSetCommand) executeWithEnv(e *env) error {
	minutes := e.cfg.Reminder.DefaultIntervalMinutes
	if text := strings.TrimSpace(c.Args.Minutes); text != "" {
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid interval %q", text)
		}
		minutes = n
	}

	s, err := e.settings.Apply(context.Background(), minutes)
	if err != nil {
		return err
	}
	return printSettings(c.globals, s)
}

// Execute implements the go-flags Commander interface for ReminderToggleCommand.
func (c *ReminderToggleCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

func (c *ReminderToggleCommand) executeWithEnv(e *env) error {
	s, err := e.settings.Toggle(context.Background())
	if err != nil {
		return err
	}
	return printSettings(c.globals, s)
}

// Execute implements the go-flags Commander interface for ReminderRunCommand.
func (c *ReminderRunCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, func(e *env) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.run(ctx, e, reminder.NewWriterNotifier(os.Stdout))
	})
}

// run delivers reminders through notifier until ctx is done.
func (c *ReminderRunCommand) run(ctx context.Context, e *env, notifier reminder.Notifier) error {
	settings := e.settings.Get(ctx)
	if !settings.Active() {
		return fmt.Errorf("reminders are off; enable them with: zikr reminder set <minutes>")
	}

	msg := reminder.Message{Title: e.cfg.Reminder.Title, Body: e.cfg.Reminder.Body}
	sched := reminder.NewCronScheduler(notifier, msg, e.log)
	if err := sched.Schedule(settings); err != nil {
		return err
	}
	sched.Start()

	fmt.Printf("Reminding every %d minutes. Press Ctrl+C to stop...\n", settings.Interval)
	if next := sched.Next(); !next.IsZero() {
		fmt.Printf("Next reminder at %s\n", next.Local().Format(time.Kitchen))
	}

	<-ctx.Done()
	fmt.Println("\nStopping reminders...")
	sched.Stop()
	return nil
}
