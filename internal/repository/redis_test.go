package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisParticipantCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisParticipantCache(client, ttl), mr
}

func TestRedisParticipantCacheSetGet(t *testing.T) {
	cache, _ := newTestRedisCache(t, 10*time.Minute)
	ctx := context.Background()
	id := uuid.New()

	name, ok, err := cache.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, name)

	require.NoError(t, cache.SetName(ctx, "customer", id, "GreenTech Innovations"))

	name, ok, err = cache.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GreenTech Innovations", name)
}

func TestRedisParticipantCacheKindsAreIsolated(t *testing.T) {
	cache, _ := newTestRedisCache(t, 10*time.Minute)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.SetName(ctx, "customer", id, "GreenTech Innovations"))

	_, ok, err := cache.GetName(ctx, "contact", id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisParticipantCacheTTLExpiry(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.SetName(ctx, "contact", id, "Sarah Chen"))

	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.GetName(ctx, "contact", id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisParticipantCacheUnavailable(t *testing.T) {
	cache, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	_, _, err := cache.GetName(context.Background(), "customer", uuid.New())
	assert.Error(t, err)
}
