package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is the key-value medium every zikr record lives in. Values are opaque
// strings (JSON documents in practice). Implementations must be durable
// across process restarts, except MemoryStore.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// Stats holds aggregate statistics about a SQLite key-value database.
type Stats struct {
	TotalKeys   int64
	NewestWrite time.Time
	OldestWrite time.Time
}
