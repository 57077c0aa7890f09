package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/zikr/internal/config"
	"github.com/runnerr0/zikr/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

var testNow = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// testClock is a settable time source for env services.
type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

// newTestEnv wires an env over store with a fixed clock.
func newTestEnv(t *testing.T, store storage.Store) (*env, *testClock) {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore()
	}
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = "memory"
	clock := &testClock{t: testNow}

	e, err := newEnv(cfg, store, nil, clock.Now)
	require.NoError(t, err)
	e.location = "memory"
	return e, clock
}

// parseOnly builds a parser whose commands are parsed but not executed.
func parseOnly(t *testing.T, args ...string) (*GlobalFlags, *commands, error) {
	t.Helper()
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }
	_, err := parser.ParseArgs(args)
	return globals, cmds, err
}

// writeConfig writes a config file into a temp dir that keeps all data there.
func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "storage:\n  backend: " + backend + "\n  path: " + dir + "\nlogging:\n  level: error\n  file: zikr.log\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}
