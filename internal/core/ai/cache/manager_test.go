package cache

import (
	"context"
	"testing"
	"time"

	"cocktail-catalog/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			Backend:         "memory",
			MaxSize:         3,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
	}
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(memoryConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt a", "", "response a"))

	val, err := m.Get(ctx, "prompt a", "")
	require.NoError(t, err)
	assert.Equal(t, "response a", val)

	_, err = m.Get(ctx, "prompt b", "")
	assert.Error(t, err)
}

func TestManagerDocumentKeying(t *testing.T) {
	m := NewManager(memoryConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "extract", "doc-one", "first"))
	require.NoError(t, m.Set(ctx, "extract", "doc-two", "second"))

	val, err := m.Get(ctx, "extract", "doc-one")
	require.NoError(t, err)
	assert.Equal(t, "first", val)

	val, err = m.Get(ctx, "extract", "doc-two")
	require.NoError(t, err)
	assert.Equal(t, "second", val)
}

func TestManagerExpiry(t *testing.T) {
	cfg := memoryConfig()
	cfg.Cache.TTL = 10 * time.Millisecond
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "short lived", "", "value"))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "short lived", "")
	assert.Error(t, err)
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := NewManager(memoryConfig())
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "p1", "", "v1"))
	require.NoError(t, m.Set(ctx, "p2", "", "v2"))
	require.NoError(t, m.Set(ctx, "p3", "", "v3"))
	require.NoError(t, m.Set(ctx, "p4", "", "v4"))

	stats := m.GetStats()
	assert.LessOrEqual(t, stats["size"], 3)

	val, err := m.Get(ctx, "p4", "")
	require.NoError(t, err)
	assert.Equal(t, "v4", val)
}

func TestManagerDisabled(t *testing.T) {
	cfg := memoryConfig()
	cfg.Cache.Enabled = false
	assert.Nil(t, NewManager(cfg))

	// nil manager Close is a no-op
	var m *Manager
	assert.NoError(t, m.Close())
}
