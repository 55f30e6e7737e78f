package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCache struct {
	inner  *MemoryParticipantCache
	broken bool
}

func (f *flakyCache) GetName(ctx context.Context, kind string, id uuid.UUID) (string, bool, error) {
	if f.broken {
		return "", false, errors.New("cache unavailable")
	}
	return f.inner.GetName(ctx, kind, id)
}

func (f *flakyCache) SetName(ctx context.Context, kind string, id uuid.UUID, name string) error {
	if f.broken {
		return errors.New("cache unavailable")
	}
	return f.inner.SetName(ctx, kind, id, name)
}

func newTestFailover(primaryBroken bool) (*FailoverParticipantCache, *flakyCache, *MemoryParticipantCache) {
	logger := zerolog.New(io.Discard)
	primary := &flakyCache{inner: NewMemoryParticipantCache(time.Minute), broken: primaryBroken}
	fallback := NewMemoryParticipantCache(time.Minute)
	return NewFailoverParticipantCache(primary, fallback, &logger), primary, fallback
}

func TestFailoverUsesPrimaryWhenHealthy(t *testing.T) {
	cache, primary, fallback := newTestFailover(false)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.SetName(ctx, "customer", id, "GreenTech Innovations"))

	name, ok, err := primary.inner.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "GreenTech Innovations", name)

	_, ok, err = fallback.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFailoverFallsBackWhenPrimaryFails(t *testing.T) {
	cache, _, fallback := newTestFailover(true)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, cache.SetName(ctx, "contact", id, "Sarah Chen"))

	name, ok, err := fallback.GetName(ctx, "contact", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sarah Chen", name)

	name, ok, err = cache.GetName(ctx, "contact", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Sarah Chen", name)
}

func TestFailoverRecoversPrimary(t *testing.T) {
	cache, primary, _ := newTestFailover(true)
	ctx := context.Background()
	id := uuid.New()

	_, _, err := cache.GetName(ctx, "customer", id)
	require.NoError(t, err)

	primary.broken = false
	require.NoError(t, primary.inner.SetName(ctx, "customer", id, "NorthWind Trading"))

	// отодвигаем момент последней проверки, чтобы сработала повторная
	// попытка основного кэша
	cache.lastCheck = time.Now().Add(-2 * time.Minute)

	name, ok, err := cache.GetName(ctx, "customer", id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NorthWind Trading", name)
	assert.False(t, cache.isDown.Load())
}
