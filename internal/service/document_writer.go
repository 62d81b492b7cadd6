package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultWriteTimeout bounds a single background write
const DefaultWriteTimeout = 10 * time.Second

// DocumentWriter persists one document key in the background.
// Enqueue never blocks: a snapshot that has not been written yet is replaced
// by the newer one, so only the latest state reaches the store. Each snapshot
// is written at most once and failures are logged, never retried.
type DocumentWriter struct {
	store   domain.KVStore
	key     string
	logger  zerolog.Logger
	timeout time.Duration

	mu         sync.Mutex
	pending    json.RawMessage
	hasPending bool
	idle       chan struct{} // non-nil while the drain goroutine runs
}

// NewDocumentWriter creates a writer for key
func NewDocumentWriter(store domain.KVStore, key string, logger zerolog.Logger) *DocumentWriter {
	return &DocumentWriter{
		store:   store,
		key:     key,
		logger:  logger.With().Str("component", "document_writer").Str("key", key).Logger(),
		timeout: DefaultWriteTimeout,
	}
}

// Key returns the document key this writer owns
func (w *DocumentWriter) Key() string {
	return w.key
}

// Enqueue schedules value to be written
func (w *DocumentWriter) Enqueue(value json.RawMessage) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = value
	w.hasPending = true
	if w.idle != nil {
		return
	}
	w.idle = make(chan struct{})
	go w.drain(w.idle)
}

func (w *DocumentWriter) drain(idle chan struct{}) {
	defer close(idle)

	for {
		w.mu.Lock()
		if !w.hasPending {
			w.idle = nil
			w.mu.Unlock()
			return
		}
		value := w.pending
		w.pending = nil
		w.hasPending = false
		w.mu.Unlock()

		w.write(value)
	}
}

func (w *DocumentWriter) write(value json.RawMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.store.Set(ctx, w.key, value); err != nil {
		w.logger.Error().Err(err).Int("bytes", len(value)).Msg("Failed to persist document")
		return
	}
	w.logger.Debug().Int("bytes", len(value)).Msg("Persisted document")
}

// Flush waits until every enqueued snapshot has been handed to the store
func (w *DocumentWriter) Flush(ctx context.Context) error {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()

	if idle == nil {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
