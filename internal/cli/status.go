package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/zikr/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version         string `json:"version"`
	Backend         string `json:"backend"`
	Location        string `json:"location"`
	DatabaseSize    int64  `json:"database_size_bytes,omitempty"`
	TotalKeys       int64  `json:"total_keys"`
	OldestWrite     string `json:"oldest_write,omitempty"`
	NewestWrite     string `json:"newest_write,omitempty"`
	CustomPractices int    `json:"custom_practices"`
	Timezone        string `json:"timezone"`
	RemindersOn     bool   `json:"reminders_enabled"`
	ReminderMinutes int    `json:"reminder_interval_minutes"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	return withEnv(c.env, c.globals, c.executeWithEnv)
}

// statsProvider is implemented by stores that track write times.
type statsProvider interface {
	GetStats(ctx context.Context) (*storage.Stats, error)
}

func (c *StatusCommand) executeWithEnv(e *env) error {
	ctx := context.Background()

	stats, err := storeStats(ctx, e.store)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	out := statusJSON{
		Version:         c.version,
		Backend:         e.cfg.Storage.Backend,
		Location:        e.location,
		TotalKeys:       stats.TotalKeys,
		CustomPractices: len(e.registry.List(ctx)),
		Timezone:        e.records.Location().String(),
	}
	if e.db != nil {
		out.DatabaseSize = getDatabaseSize(e.db, e.location)
	}
	if !stats.OldestWrite.IsZero() {
		out.OldestWrite = stats.OldestWrite.UTC().Format(time.RFC3339)
		out.NewestWrite = stats.NewestWrite.UTC().Format(time.RFC3339)
	}
	settings := e.settings.Get(ctx)
	out.RemindersOn = settings.Active()
	out.ReminderMinutes = settings.Interval

	if wantJSON(c.globals) {
		return printJSON(out)
	}
	return c.printStatusHuman(out, stats)
}

// storeStats uses the store's own statistics when it has them and otherwise
// counts keys.
func storeStats(ctx context.Context, store storage.Store) (*storage.Stats, error) {
	if sp, ok := store.(statsProvider); ok {
		return sp.GetStats(ctx)
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	return &storage.Stats{TotalKeys: int64(len(keys))}, nil
}

func (c *StatusCommand) printStatusHuman(out statusJSON, stats *storage.Stats) error {
	fmt.Println("zikr Status")
	fmt.Println("===========")
	fmt.Printf("Version:       %s\n", out.Version)
	if out.DatabaseSize > 0 {
		fmt.Printf("Storage:       %s (%s)\n", out.Location, formatBytes(out.DatabaseSize))
	} else {
		fmt.Printf("Storage:       %s\n", out.Location)
	}
	fmt.Printf("Keys:          %s\n", formatNumber(out.TotalKeys))
	if !stats.OldestWrite.IsZero() {
		fmt.Printf("Oldest:        %s\n", stats.OldestWrite.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestWrite.Local().Format("2006-01-02"))
	}
	fmt.Printf("Custom:        %d practices\n", out.CustomPractices)
	fmt.Printf("Timezone:      %s\n", out.Timezone)

	fmt.Println()
	if out.RemindersOn {
		fmt.Printf("Reminders:     every %d min\n", out.ReminderMinutes)
	} else {
		fmt.Println("Reminders:     off")
	}
	return nil
}

// getDatabaseSize returns the database file size in bytes.
// For on-disk databases, it uses os.Stat. For in-memory databases,
// it queries page_count * page_size.
func getDatabaseSize(db *sql.DB, dbPath string) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}

	var pageCount, pageSize int64
	if err := db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
		return 0
	}
	if err := db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
		return 0
	}
	return pageCount * pageSize
}
