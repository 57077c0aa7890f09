package practice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/zikr/internal/counter"
	"github.com/runnerr0/zikr/internal/storage"
)

var (
	// ErrEntryNotFound is returned when removing an id that is not registered.
	ErrEntryNotFound = errors.New("custom practice not found")
	// ErrDuplicateID is returned when adding an id that is already registered.
	ErrDuplicateID = errors.New("custom practice id already registered")
	// ErrInvalidEntry is returned for entries without an id or name.
	ErrInvalidEntry = errors.New("custom practice needs an id and a name")
)

// Entry is one user-defined practice. Counts live in a separate record at
// CustomKey(ID).
type Entry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ArabicText string `json:"arabicText"`
	Goal       int    `json:"goal"`
}

// Practice converts the entry into its catalog form.
func (e Entry) Practice() Practice {
	return Practice{ID: e.ID, Key: CustomKey(e.ID), Name: e.Name, ArabicText: e.ArabicText, Goal: e.Goal, Custom: true}
}

// ParseGoal converts user-entered goal text. Anything that is not a positive
// integer becomes counter.DefaultGoal.
func ParseGoal(text string) int {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n <= 0 {
		return counter.DefaultGoal
	}
	return n
}

// NewEntry builds an entry with a fresh time-ordered id.
func NewEntry(name, arabicText, goalText string) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("generate id: %w", err)
	}
	return Entry{
		ID:         id.String(),
		Name:       strings.TrimSpace(name),
		ArabicText: strings.TrimSpace(arabicText),
		Goal:       ParseGoal(goalText),
	}, nil
}

// RecordDeleter removes a counter record. *counter.Service satisfies it.
type RecordDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Registry stores the list of custom practices as one JSON array under
// RegistryKey.
type Registry struct {
	store   storage.Store
	records RecordDeleter
	log     logrus.FieldLogger
}

// NewRegistry creates a Registry. records is used to drop the statistics of
// removed practices; a nil log discards output.
func NewRegistry(store storage.Store, records RecordDeleter, log logrus.FieldLogger) *Registry {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Registry{store: store, records: records, log: log}
}

// load returns the stored list. Missing or corrupt lists are empty; store
// failures are returned.
func (r *Registry) load(ctx context.Context) ([]Entry, error) {
	raw, err := r.store.Get(ctx, RegistryKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("%w: %v", counter.ErrStorageRead, err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.log.WithField("error", err).Warn("discarding malformed custom practice list")
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	for i := range entries {
		if entries[i].Goal <= 0 {
			entries[i].Goal = counter.DefaultGoal
		}
	}
	return entries, nil
}

func (r *Registry) save(ctx context.Context, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode custom practices: %w", err)
	}
	if err := r.store.Set(ctx, RegistryKey, string(data)); err != nil {
		return fmt.Errorf("%w: %v", counter.ErrStorageWrite, err)
	}
	return nil
}

// List returns the registered practices, empty when none are stored or the
// list cannot be read.
func (r *Registry) List(ctx context.Context) []Entry {
	entries, err := r.load(ctx)
	if err != nil {
		r.log.WithField("error", err).Warn("reading custom practices")
		return []Entry{}
	}
	return entries
}

// Find looks up a registered practice by id.
func (r *Registry) Find(ctx context.Context, id string) (Entry, bool) {
	for _, e := range r.List(ctx) {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Add appends entry to the list. A non-positive goal is stored as
// counter.DefaultGoal.
func (r *Registry) Add(ctx context.Context, entry Entry) error {
	if entry.ID == "" || strings.TrimSpace(entry.Name) == "" {
		return ErrInvalidEntry
	}
	if entry.Goal <= 0 {
		entry.Goal = counter.DefaultGoal
	}

	entries, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("add custom practice: %w", err)
	}
	for _, e := range entries {
		if e.ID == entry.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, entry.ID)
		}
	}

	if err := r.save(ctx, append(entries, entry)); err != nil {
		return fmt.Errorf("add custom practice: %w", err)
	}
	return nil
}

// Remove drops id from the list and deletes its counter record. The list
// update is what counts: if deleting the record fails it is only logged,
// since an unlisted record is unreachable.
func (r *Registry) Remove(ctx context.Context, id string) error {
	entries, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("remove custom practice: %w", err)
	}

	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	if err := r.save(ctx, kept); err != nil {
		return fmt.Errorf("remove custom practice: %w", err)
	}

	if r.records != nil {
		if err := r.records.Delete(ctx, CustomKey(id)); err != nil {
			r.log.WithFields(logrus.Fields{"key": CustomKey(id), "error": err}).Warn("custom practice record left behind")
		}
	}
	return nil
}
