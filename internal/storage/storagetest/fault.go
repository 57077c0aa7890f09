// Package storagetest provides Store doubles for exercising failure paths.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/runnerr0/zikr/internal/storage"
)

// ErrInjected is the default error returned by a failing FaultStore call.
var ErrInjected = errors.New("injected storage failure")

// FaultStore wraps a Store and fails selected operations on demand.
// Setting a Fail* field to a non-nil error makes every matching call return it
// without touching the wrapped store.
type FaultStore struct {
	storage.Store

	mu         sync.Mutex
	FailGet    error
	FailSet    error
	FailRemove error
	FailKeys   error

	// FailKey restricts injected failures to a single key when non-empty.
	FailKey string

	Sets    int
	Removes int
}

// New wraps inner. A nil inner gets a fresh MemoryStore.
func New(inner storage.Store) *FaultStore {
	if inner == nil {
		inner = storage.NewMemoryStore()
	}
	return &FaultStore{Store: inner}
}

func (f *FaultStore) applies(key string) bool {
	return f.FailKey == "" || f.FailKey == key
}

func (f *FaultStore) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	err := f.FailGet
	apply := f.applies(key)
	f.mu.Unlock()

	if err != nil && apply {
		return "", err
	}
	return f.Store.Get(ctx, key)
}

func (f *FaultStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	f.Sets++
	err := f.FailSet
	apply := f.applies(key)
	f.mu.Unlock()

	if err != nil && apply {
		return err
	}
	return f.Store.Set(ctx, key, value)
}

func (f *FaultStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	f.Removes++
	err := f.FailRemove
	apply := f.applies(key)
	f.mu.Unlock()

	if err != nil && apply {
		return err
	}
	return f.Store.Remove(ctx, key)
}

func (f *FaultStore) Keys(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	err := f.FailKeys
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return f.Store.Keys(ctx)
}

// Heal clears every injected failure.
func (f *FaultStore) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailGet, f.FailSet, f.FailRemove, f.FailKeys = nil, nil, nil, nil
	f.FailKey = ""
}
