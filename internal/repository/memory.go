package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type cacheEntry struct {
	name      string
	expiresAt time.Time
}

// MemoryParticipantCache is the in-process fallback when Redis is down or
// disabled.
type MemoryParticipantCache struct {
	names sync.Map
	ttl   time.Duration
}

func NewMemoryParticipantCache(ttl time.Duration) *MemoryParticipantCache {
	return &MemoryParticipantCache{
		ttl: ttl,
	}
}

func (r *MemoryParticipantCache) GetName(ctx context.Context, kind string, id uuid.UUID) (string, bool, error) {
	key := participantKey(kind, id)
	val, ok := r.names.Load(key)
	if !ok {
		return "", false, nil
	}
	entry := val.(cacheEntry)
	if time.Now().After(entry.expiresAt) {
		r.names.Delete(key)
		return "", false, nil
	}
	return entry.name, true, nil
}

func (r *MemoryParticipantCache) SetName(ctx context.Context, kind string, id uuid.UUID, name string) error {
	r.names.Store(participantKey(kind, id), cacheEntry{
		name:      name,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}
