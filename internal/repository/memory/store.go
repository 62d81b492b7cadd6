// Package memory holds a process-local document store. Nothing survives a restart.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
)

// Store implements domain.KVStore in memory
type Store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append(json.RawMessage(nil), doc...), nil
}

func (s *Store) Set(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}
