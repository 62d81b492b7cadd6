package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/websocket"
)

// MockKVStore is an in-memory implementation of domain.KVStore that records calls
type MockKVStore struct {
	mu       sync.Mutex
	data     map[string]json.RawMessage
	setCalls map[string]int

	GetErr    error
	SetErr    error
	RemoveErr error
	// SetFn, when set, runs before every Set and can block or fail it
	SetFn func(key string, value json.RawMessage) error
}

// NewMockKVStore creates a new MockKVStore
func NewMockKVStore() *MockKVStore {
	return &MockKVStore{
		data:     make(map[string]json.RawMessage),
		setCalls: make(map[string]int),
	}
}

// Get returns the stored document or domain.ErrKeyNotFound
func (m *MockKVStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return append(json.RawMessage(nil), v...), nil
}

// Set stores a document
func (m *MockKVStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	fn := m.SetFn
	m.setCalls[key]++
	m.mu.Unlock()

	if fn != nil {
		if err := fn(key, value); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append(json.RawMessage(nil), value...)
	return nil
}

// Remove deletes a document
func (m *MockKVStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.data, key)
	return nil
}

// Put seeds a raw document without counting it as a Set call
func (m *MockKVStore) Put(key, raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = json.RawMessage(raw)
}

// Value returns the stored document for assertions
func (m *MockKVStore) Value(key string) (json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// SetCount returns how many times Set was called for key
func (m *MockKVStore) SetCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls[key]
}

// FixedClock is a controllable clock for tests
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at now
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the frozen time
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// RecordingPublisher captures published events
type RecordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

// Publish records the event
func (p *RecordingPublisher) Publish(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Types returns the combined type of every recorded event, in order
func (p *RecordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// Events returns a copy of the recorded events
func (p *RecordingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]websocket.Event(nil), p.events...)
}
