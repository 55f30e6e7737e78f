package repository

import (
	"context"
	"sync/atomic"
	"time"

	"calsync/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FailoverParticipantCache tries the primary (Redis) cache first and
// drops to the in-memory fallback when it fails, probing the primary
// again after a minute.
type FailoverParticipantCache struct {
	primary   domain.ParticipantCache
	fallback  domain.ParticipantCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverParticipantCache(primary, fallback domain.ParticipantCache, logger *zerolog.Logger) *FailoverParticipantCache {
	return &FailoverParticipantCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverParticipantCache) GetName(ctx context.Context, kind string, id uuid.UUID) (string, bool, error) {
	if !r.isDown.Load() {
		name, ok, err := r.primary.GetName(ctx, kind, id)
		if err == nil {
			return name, ok, nil
		}
		r.logger.Error().Err(err).Msg("primary participant cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		name, ok, err := r.primary.GetName(ctx, kind, id)
		if err == nil {
			r.isDown.Store(false)
			return name, ok, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.GetName(ctx, kind, id)
}

func (r *FailoverParticipantCache) SetName(ctx context.Context, kind string, id uuid.UUID, name string) error {
	if !r.isDown.Load() {
		err := r.primary.SetName(ctx, kind, id, name)
		if err == nil {
			return nil
		}
		r.logger.Error().Err(err).Msg("primary participant cache failed, falling back to memory")
		r.isDown.Store(true)
		r.lastCheck = time.Now()
	}

	return r.fallback.SetName(ctx, kind, id, name)
}
