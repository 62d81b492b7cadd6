package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KVRepository implements domain.KVStore using PostgreSQL
type KVRepository struct {
	pool *pgxpool.Pool
}

// NewKVRepository creates a new KVRepository
func NewKVRepository(pool *pgxpool.Pool) *KVRepository {
	return &KVRepository{pool: pool}
}

// Get returns the document stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM kv_documents WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

// Set replaces the document stored under key
func (r *KVRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO kv_documents (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM kv_documents WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
