package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runnerr0/zikr/internal/meditation"
)

// Execute implements the go-flags Commander interface for MeditateCommand.
func (c *MeditateCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, func(e *env) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.run(ctx, e, meditation.NewTimer())
	})
}

type meditateJSON struct {
	Minutes   int  `json:"minutes"`
	Completed bool `json:"completed"`
	Remaining int  `json:"remaining_seconds"`
}

func (c *MeditateCommand) run(ctx context.Context, e *env, timer *meditation.Timer) error {
	minutes := e.cfg.Meditation.DefaultMinutes
	if c.Minutes != "" {
		n, err := meditation.ParseMinutes(c.Minutes)
		if err != nil {
			return err
		}
		minutes = n
	}
	d := time.Duration(minutes) * time.Minute

	jsonOut := wantJSON(c.globals)
	if !jsonOut {
		fmt.Printf("Muraqaba: %d minutes. Press Ctrl+C to end early.\n", minutes)
		fmt.Printf("\r%s", meditation.FormatClock(d))
	}

	left, err := timer.Run(ctx, d, func(remaining time.Duration) {
		if !jsonOut {
			fmt.Printf("\r%s", meditation.FormatClock(remaining))
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	completed := err == nil
	e.log.WithField("minutes", minutes).WithField("completed", completed).Info("meditation session ended")

	if jsonOut {
		return printJSON(meditateJSON{Minutes: minutes, Completed: completed, Remaining: int(left / time.Second)})
	}
	fmt.Println()
	if completed {
		fmt.Println("Session complete.")
	} else {
		fmt.Printf("Session ended with %s left.\n", meditation.FormatClock(left))
	}
	return nil
}
