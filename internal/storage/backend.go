// Package storage persists the expense collection as a single serialized
// blob under a fixed key.
package storage

import (
	"context"
	"errors"
)

// DefaultKey is the storage key holding the expense collection.
const DefaultKey = "expense-tracker-data"

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("storage backend closed")

// Backend is a minimal key-value store. Get reports ok=false for an absent key.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
