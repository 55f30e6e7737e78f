package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calsync/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisParticipantCache keeps customer/contact display names in Redis so
// repeated syncs skip the lookup queries.
type RedisParticipantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisParticipantCache(client *redis.Client, ttl time.Duration) *RedisParticipantCache {
	return &RedisParticipantCache{
		client: client,
		ttl:    ttl,
	}
}

func participantKey(kind string, id uuid.UUID) string {
	return fmt.Sprintf("participant:%s:%s", kind, id)
}

func (r *RedisParticipantCache) GetName(ctx context.Context, kind string, id uuid.UUID) (string, bool, error) {
	if r.client == nil {
		return "", false, fmt.Errorf("redis client is nil")
	}
	name, err := r.client.Get(ctx, participantKey(kind, id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get participant name from redis: %w", err)
	}
	return name, true, nil
}

func (r *RedisParticipantCache) SetName(ctx context.Context, kind string, id uuid.UUID, name string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Set(ctx, participantKey(kind, id), name, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set participant name in redis: %w", err)
	}
	return nil
}
