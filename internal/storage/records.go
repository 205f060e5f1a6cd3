package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// RecordStore loads and saves the whole expense collection at once.
//
// Read failures degrade to an empty collection and write failures are logged
// and swallowed; the caller's in-memory slice stays authoritative. The store
// holds no lock: concurrent writers race and the last save wins.
type RecordStore struct {
	backend Backend
	key     string
	logger  *log.Logger
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *RecordStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *log.Logger) Option {
	return func(s *RecordStore) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentStorage)
		}
	}
}

func NewRecordStore(backend Backend, opts ...Option) *RecordStore {
	s := &RecordStore{
		backend: backend,
		key:     DefaultKey,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key in use.
func (s *RecordStore) Key() string { return s.key }

// Load returns the persisted collection, or an empty one when nothing is
// stored or the payload cannot be decoded.
func (s *RecordStore) Load(ctx context.Context) []core.Expense {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read expenses",
			log.FieldStorageKey, s.key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return []core.Expense{}
	}
	if !ok {
		return []core.Expense{}
	}

	var expenses []core.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		s.logger.ErrorContext(ctx, "Failed to decode stored expenses",
			log.FieldStorageKey, s.key, log.FieldOperation, log.OpLoad, log.FieldError, err)
		return []core.Expense{}
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return expenses
}

// Save replaces the stored collection. Failures are logged, never returned.
func (s *RecordStore) Save(ctx context.Context, expenses []core.Expense) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode expenses",
			log.FieldOperation, log.OpSave, log.FieldError, err)
		return
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save expenses",
			log.FieldStorageKey, s.key, log.FieldOperation, log.OpSave, log.FieldError, err)
		return
	}
	s.logger.DebugContext(ctx, "Expenses saved", log.FieldCount, len(expenses))
}

// Add appends e and returns the new collection.
func (s *RecordStore) Add(ctx context.Context, e core.Expense) []core.Expense {
	expenses := append(s.Load(ctx), e)
	s.Save(ctx, expenses)
	return expenses
}

// Update replaces the record with the given id. An unknown id leaves the
// stored collection untouched.
func (s *RecordStore) Update(ctx context.Context, id string, e core.Expense) []core.Expense {
	expenses := s.Load(ctx)
	found := false
	for i := range expenses {
		if expenses[i].ID == id {
			expenses[i] = e
			found = true
		}
	}
	if found {
		s.Save(ctx, expenses)
	}
	return expenses
}

// Remove drops the record with the given id. An unknown id leaves the stored
// collection untouched.
func (s *RecordStore) Remove(ctx context.Context, id string) []core.Expense {
	expenses := s.Load(ctx)
	kept := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(expenses) {
		s.Save(ctx, kept)
	}
	return kept
}

// Clear deletes the stored collection.
func (s *RecordStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	return nil
}

// Close releases the backend.
func (s *RecordStore) Close() error {
	return s.backend.Close()
}
