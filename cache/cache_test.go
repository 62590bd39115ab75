package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/finance-engine/cache"
)

func TestKey_DependsOnAllInputs(t *testing.T) {
	a := cache.Key("simulate", "user-1", "200")
	b := cache.Key("simulate", "user-1", "300")
	c := cache.Key("simulate", "user-2", "200")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, a, cache.Key("simulate", "user-1", "200"))
	assert.Contains(t, a, "simulate:")
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestMemory_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := cache.NewMemory()

	require.NoError(t, m.Set(ctx, "k", "v", time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok, "expired entry must not be served")
}
