// Package services holds the application state object that owns the expense
// collection for the lifetime of a process.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensetracker/internal/amqp"
	"expensetracker/internal/analysis"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

var (
	// ErrExpenseNotFound is returned when updating or fetching an unknown id.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrNothingToExport is returned when an export would contain no rows.
	ErrNothingToExport = errors.New("no expenses to export")
)

// Store is the record store capability the service depends on.
type Store interface {
	Load(ctx context.Context) []core.Expense
	Add(ctx context.Context, e core.Expense) []core.Expense
	Update(ctx context.Context, id string, e core.Expense) []core.Expense
	Remove(ctx context.Context, id string) []core.Expense
	Clear(ctx context.Context) error
}

// Publisher receives change events after a mutation is persisted.
type Publisher interface {
	Publish(ctx context.Context, evt amqp.ExpenseEvent) error
}

// ExpenseService owns the in-memory collection and applies every mutation
// through the Store, adopting the collection the store returns. Store write
// failures are logged, not returned: a record whose write failed lives only in
// memory until the next mutation, which re-reads the backend and drops it.
type ExpenseService struct {
	store     Store
	publisher Publisher
	logger    *log.Logger
	events    *log.StructuredLogger
	now       func() time.Time
	newID     func() string

	mu       sync.RWMutex
	expenses []core.Expense
}

// Option configures an ExpenseService.
type Option func(*ExpenseService)

func WithPublisher(p Publisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *ExpenseService) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentExpense)
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *ExpenseService) { s.now = now }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *ExpenseService) { s.newID = gen }
}

// NewExpenseService loads the persisted collection and returns the service.
func NewExpenseService(ctx context.Context, store Store, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:  store,
		logger: log.Discard(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.events = log.NewStructuredLogger(s.logger)
	s.expenses = store.Load(ctx)
	s.logger.InfoContext(ctx, "Expenses loaded", log.FieldCount, len(s.expenses))
	return s
}

// Reload replaces the in-memory collection with what the store holds.
func (s *ExpenseService) Reload(ctx context.Context) int {
	loaded := s.store.Load(ctx)
	s.mu.Lock()
	s.expenses = loaded
	s.mu.Unlock()
	return len(loaded)
}

// All returns a copy of the collection in storage order.
func (s *ExpenseService) All() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenses)
}

// List returns the filtered collection sorted by date.
func (s *ExpenseService) List(filters core.Filters, order analysis.SortOrder) []core.Expense {
	return analysis.SortByDate(analysis.Filter(s.All(), filters), order)
}

// Get returns the expense with the given id.
func (s *ExpenseService) Get(id string) (core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, ErrExpenseNotFound
}

// Summary computes the dashboard statistics over the whole collection.
func (s *ExpenseService) Summary() core.Summary {
	return analysis.SummarizeAt(s.All(), s.now())
}

// Create validates input, assigns an id and timestamps, and persists the
// new expense.
func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	e, err := in.toExpense()
	if err != nil {
		return core.Expense{}, err
	}
	ts := s.now().UTC()
	e.ID = s.newID()
	e.CreatedAt = ts
	e.UpdatedAt = ts
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.mu.Lock()
	s.expenses = s.store.Add(ctx, e)
	count := len(s.expenses)
	s.mu.Unlock()

	s.events.LogExpenseChange(ctx, "Expense created", log.OpCreate, e.ID, string(e.Category), e.Amount.String(), core.FormatCurrency(e.Amount))
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventCreated, e.ID, &e, count))
	return e, nil
}

// Update replaces the expense with the given id. The id and creation time are
// kept; UpdatedAt is refreshed.
func (s *ExpenseService) Update(ctx context.Context, id string, in ExpenseInput) (core.Expense, error) {
	e, err := in.toExpense()
	if err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.expenses, func(x core.Expense) bool { return x.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return core.Expense{}, ErrExpenseNotFound
	}
	e.ID = id
	e.CreatedAt = s.expenses[idx].CreatedAt
	e.UpdatedAt = s.now().UTC()
	s.expenses = s.store.Update(ctx, id, e)
	count := len(s.expenses)
	s.mu.Unlock()

	s.events.LogExpenseChange(ctx, "Expense updated", log.OpUpdate, e.ID, string(e.Category), e.Amount.String(), core.FormatCurrency(e.Amount))
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventUpdated, e.ID, &e, count))
	return e, nil
}

// Delete removes the expense with the given id and returns the remaining
// collection. Unknown ids are not an error.
func (s *ExpenseService) Delete(ctx context.Context, id string) []core.Expense {
	s.mu.Lock()
	before := len(s.expenses)
	s.expenses = s.store.Remove(ctx, id)
	remaining := slices.Clone(s.expenses)
	s.mu.Unlock()

	if len(remaining) == before {
		s.logger.DebugContext(ctx, "Delete of unknown expense ignored", log.FieldExpenseID, id)
		return remaining
	}
	s.events.LogExpenseChange(ctx, "Expense deleted", log.OpDelete, id, "", "", "")
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventDeleted, id, nil, len(remaining)))
	return remaining
}

// Clear deletes the persisted collection and empties the in-memory one.
func (s *ExpenseService) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.store.Clear(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.expenses = []core.Expense{}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expenses cleared", log.FieldOperation, log.OpClear)
	s.publish(ctx, amqp.NewExpenseEvent(amqp.EventCleared, "", nil, 0))
	return nil
}

// Export is a rendered CSV export.
type Export struct {
	Filename string
	Content  string
	Expenses []core.Expense
}

// Export renders the filtered collection as CSV. An empty result is refused
// with ErrNothingToExport rather than producing a header-only file.
func (s *ExpenseService) Export(filters core.Filters) (Export, error) {
	rows := analysis.Filter(s.All(), filters)
	if len(rows) == 0 {
		return Export{}, ErrNothingToExport
	}
	return Export{
		Filename: analysis.ExportFilename(s.now()),
		Content:  analysis.ToCSV(rows),
		Expenses: rows,
	}, nil
}

func (s *ExpenseService) publish(ctx context.Context, evt amqp.ExpenseEvent) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event", log.FieldEventType, evt.Type)
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		// The mutation is already persisted.
		s.events.LogError(ctx, "Failed to publish expense event", err, log.OpPublish,
			log.NewFields().WithExpense(evt.ExpenseID, "", "", ""))
	}
}

// ExpenseInput is the raw form payload for create and update.
type ExpenseInput struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ValidationError maps form fields to user-facing messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate checks the input and returns a *ValidationError listing every
// failing field.
func (in ExpenseInput) Validate() error {
	_, err := in.toExpense()
	return err
}

func (in ExpenseInput) toExpense() (core.Expense, error) {
	fields := map[string]string{}
	var e core.Expense

	if strings.TrimSpace(in.Date) == "" {
		fields["date"] = "Date is required"
	} else if d, err := core.ParseDate(in.Date); err != nil {
		fields["date"] = "Date must be in YYYY-MM-DD format"
	} else {
		e.Date = d
	}

	if a, err := core.ParseAmount(in.Amount); err != nil {
		fields["amount"] = "Amount must be greater than 0"
	} else {
		e.Amount = a
	}

	if strings.TrimSpace(in.Category) == "" {
		e.Category = core.Food
	} else if c, err := core.ParseCategory(in.Category); err != nil || c == core.CategoryAll {
		fields["category"] = "Category is invalid"
	} else {
		e.Category = c
	}

	e.Description = strings.TrimSpace(in.Description)
	if e.Description == "" {
		fields["description"] = "Description is required"
	}

	if len(fields) > 0 {
		return core.Expense{}, &ValidationError{Fields: fields}
	}
	return e, nil
}
