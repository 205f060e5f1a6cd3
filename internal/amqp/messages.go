package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/core"
)

// EventType names a change to the expense collection.
type EventType string

const (
	EventCreated EventType = "expense.created"
	EventUpdated EventType = "expense.updated"
	EventDeleted EventType = "expense.deleted"
	EventCleared EventType = "expense.cleared"
)

// ExpenseEvent is published after a mutation has been persisted. Expense is
// set for created and updated events; Count carries the size of the
// collection after the change.
type ExpenseEvent struct {
	Type      EventType     `json:"type"`
	ExpenseID string        `json:"expenseId,omitempty"`
	Expense   *core.Expense `json:"expense,omitempty"`
	Count     int           `json:"count"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewExpenseEvent creates an event stamped with the current time.
func NewExpenseEvent(t EventType, id string, e *core.Expense, count int) ExpenseEvent {
	return ExpenseEvent{
		Type:      t,
		ExpenseID: id,
		Expense:   e,
		Count:     count,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (m ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventFromJSON decodes an event.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var msg ExpenseEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
