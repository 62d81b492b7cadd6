package repository

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/config"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{StorageBackend: config.StorageMemory}, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), domain.KeyProfile, json.RawMessage(`{}`)))
	_, err = store.Get(context.Background(), domain.KeyProfile)
	assert.NoError(t, err)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{
		StorageBackend: config.StorageSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "ebudgetmo.db"),
	}

	store, err := OpenStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get(context.Background(), domain.KeyBudgetData)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestOpenStore_Unknown(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StorageBackend: "floppy"}, zerolog.Nop())
	assert.Error(t, err)
}
