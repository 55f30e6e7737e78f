package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryParticipantCacheSetGet(t *testing.T) {
	cache := NewMemoryParticipantCache(10 * time.Minute)
	ctx := context.Background()
	id := uuid.New()

	_, ok, err := cache.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetName(ctx, "customer", id, "NorthWind Trading"))

	name, ok, err := cache.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NorthWind Trading", name)
}

func TestMemoryParticipantCacheExpiry(t *testing.T) {
	cache := NewMemoryParticipantCache(10 * time.Millisecond)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.SetName(ctx, "contact", id, "Sarah Chen"))

	time.Sleep(20 * time.Millisecond)

	_, ok, err := cache.GetName(ctx, "contact", id)
	require.NoError(t, err)
	assert.False(t, ok)
}
