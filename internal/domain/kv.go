package domain

import (
	"context"
	"encoding/json"
)

// Storage keys of the persisted documents
const (
	KeyBudgetData     = "budget_data"
	KeyRecurringBills = "recurring_bills"
	KeyHasSeenWelcome = "hasSeenWelcome"
	KeyProfile        = "profile"
)

// KVStore persists whole JSON documents under string keys
type KVStore interface {
	// Get returns ErrKeyNotFound when nothing is stored under key
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	// Remove is a no-op for absent keys
	Remove(ctx context.Context, key string) error
}
