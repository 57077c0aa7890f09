package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/zikr/internal/config"
	"github.com/runnerr0/zikr/internal/counter"
	"github.com/runnerr0/zikr/internal/logging"
	"github.com/runnerr0/zikr/internal/practice"
	"github.com/runnerr0/zikr/internal/report"
	"github.com/runnerr0/zikr/internal/reminder"
	"github.com/runnerr0/zikr/internal/storage"
)

// env bundles the services a command works with.
type env struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	store    storage.Store
	location string // where the data lives, for status output
	db       *sql.DB

	records  *counter.Service
	registry *practice.Registry
	catalog  *practice.Catalog
	reporter *report.Reporter
	settings *reminder.SettingsStore

	closers []io.Closer
}

// newEnv wires services over store. now may be nil for time.Now.
func newEnv(cfg *config.Config, store storage.Store, log logrus.FieldLogger, now func() time.Time) (*env, error) {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	loc, err := time.LoadLocation(cfg.Counter.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Counter.Timezone, err)
	}

	e := &env{cfg: cfg, log: log, store: store, location: cfg.Storage.Backend}

	// The registry needs the counter service to drop records and the counter
	// service asks the catalog for defaults, which reads the registry.
	var catalog *practice.Catalog
	e.records = counter.NewService(store, log,
		counter.WithClock(now),
		counter.WithLocation(loc),
		counter.WithDefaultGoal(cfg.Counter.DefaultGoal),
		counter.WithDefaults(func(ctx context.Context, key string) (counter.Defaults, bool) {
			return catalog.Defaults(ctx, key)
		}),
	)
	e.registry = practice.NewRegistry(store, e.records, log)
	catalog = practice.NewCatalog(e.registry)
	e.catalog = catalog
	e.reporter = report.NewReporter(e.records, e.registry,
		report.WithClock(now),
		report.WithLocation(loc),
		report.WithStreakWindow(cfg.Counter.StreakWindowDays),
	)
	e.settings = reminder.NewSettingsStore(store, log)
	return e, nil
}

// Close releases the store and everything opened with it.
func (e *env) Close() error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

// loadConfig reads the file named by --config, or the default location.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// openEnv loads config, sets up logging and opens the configured backend.
func openEnv(globals *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	verbose := globals != nil && globals.Verbose
	log, logCloser, err := logging.New(cfg.Logging.Level, logPath, verbose)
	if err != nil {
		return nil, err
	}

	store, location, db, closers, err := openStore(cfg)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	e, err := newEnv(cfg, store, log, nil)
	if err != nil {
		store.Close()
		for _, c := range closers {
			c.Close()
		}
		logCloser.Close()
		return nil, err
	}
	e.location = location
	e.db = db
	e.closers = append([]io.Closer{logCloser}, closers...)
	return e, nil
}

// openStore opens the backend named in cfg. It returns the store, a
// description of where data lives, the SQLite handle when there is one and
// any extra resources to close after the store.
func openStore(cfg *config.Config) (storage.Store, string, *sql.DB, []io.Closer, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "", "sqlite":
		dbPath, err := cfg.SQLitePath()
		if err != nil {
			return nil, "", nil, nil, fmt.Errorf("resolve database path: %w", err)
		}
		store, db, err := openSQLiteStore(dbPath, cfg.Storage.SQLiteJournalMode)
		if err != nil {
			return nil, "", nil, nil, err
		}
		return store, dbPath, db, []io.Closer{db}, nil

	case "redis":
		store, err := openRedisStore(cfg.Storage.Redis)
		if err != nil {
			return nil, "", nil, nil, err
		}
		return store, "redis://" + cfg.Storage.Redis.Addr, nil, nil, nil

	case "memory":
		return storage.NewMemoryStore(), "memory", nil, nil, nil

	default:
		return nil, "", nil, nil, fmt.Errorf("unknown storage backend %q (use sqlite, redis or memory)", cfg.Storage.Backend)
	}
}

// openSQLiteStore opens the database at dbPath, runs migrations, and returns
// a ready-to-use store and the underlying *sql.DB.
func openSQLiteStore(dbPath, journalMode string) (*storage.SQLiteStore, *sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db).WithJournalMode(journalMode)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

func openRedisStore(cfg config.RedisConfig) (*storage.RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})
	store := storage.NewRedisStore(client, cfg.KeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.DialTimeoutSeconds+1)*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return store, nil
}

// withEnv runs fn against injected, or else a freshly opened, env.
func withEnv(injected *env, globals *GlobalFlags, fn func(*env) error) error {
	if injected != nil {
		return fn(injected)
	}
	e, err := openEnv(globals)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func wantJSON(globals *GlobalFlags) bool {
	return globals != nil && globals.JSON
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// recordJSON is the JSON output shape of a record.
type recordJSON struct {
	Key           string  `json:"key"`
	Name          string  `json:"name"`
	ArabicText    string  `json:"arabic_text,omitempty"`
	Goal          int     `json:"goal"`
	Total         int     `json:"total"`
	Daily         int     `json:"daily"`
	Weekly        int     `json:"weekly"`
	Monthly       int     `json:"monthly"`
	Yearly        int     `json:"yearly"`
	CompletedSets int     `json:"completed_sets"`
	Progress      float64 `json:"progress"`
	LastUpdated   string  `json:"last_updated,omitempty"`
}

func toRecordJSON(r *counter.Record) recordJSON {
	out := recordJSON{
		Key:           r.ID,
		Name:          r.DisplayName,
		ArabicText:    r.ArabicText,
		Goal:          r.Goal,
		Total:         r.TotalCount,
		Daily:         r.DailyCount,
		Weekly:        r.WeeklyCount,
		Monthly:       r.MonthlyCount,
		Yearly:        r.YearlyCount,
		CompletedSets: r.CompletedSets(),
		Progress:      r.Progress(),
	}
	if !r.LastUpdatedAt.IsZero() {
		out.LastUpdated = r.LastUpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func printRecordHuman(r *counter.Record) {
	fmt.Printf("%s (%s)\n", r.DisplayName, r.ID)
	if r.ArabicText != "" {
		fmt.Printf("  %s\n", r.ArabicText)
	}
	fmt.Printf("  Today:     %s  (%d sets, %d/%d)\n", formatNumber(int64(r.DailyCount)), r.CompletedSets(), r.DailyCount%r.Goal, r.Goal)
	fmt.Printf("  Week:      %s\n", formatNumber(int64(r.WeeklyCount)))
	fmt.Printf("  Month:     %s\n", formatNumber(int64(r.MonthlyCount)))
	fmt.Printf("  Year:      %s\n", formatNumber(int64(r.YearlyCount)))
	fmt.Printf("  Total:     %s\n", formatNumber(int64(r.TotalCount)))
	if !r.LastUpdatedAt.IsZero() {
		fmt.Printf("  Updated:   %s\n", r.LastUpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
