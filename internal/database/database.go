package database

import (
	"context"
	"fmt"

	"calsync/internal/config"
	"calsync/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type DB struct {
	pool   *pgxpool.Pool
	logger *zerolog.Logger
}

func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database dsn: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConnections)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем соединение
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Msg("database pool initialized")
	return &DB{pool: pool, logger: logger}, nil
}

// EnsureSchema creates the sync support tables and indexes. The interaction,
// customer and contact tables belong to the CRM module and are not created
// here.
func (db *DB) EnsureSchema(ctx context.Context) error {
	queries := []string{
		// Таблица календарных событий
		`CREATE TABLE IF NOT EXISTS calendar_events (
            event_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            title TEXT NOT NULL,
            description TEXT,
            event_date TIMESTAMPTZ NOT NULL,
            start_time TEXT NOT NULL,
            end_time TEXT,
            all_day BOOLEAN NOT NULL DEFAULT FALSE,
            event_type VARCHAR(50) NOT NULL DEFAULT 'interaction',
            event_status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
            related_table VARCHAR(50) NOT NULL,
            related_id UUID NOT NULL,
            location TEXT,
            participants TEXT[] NOT NULL DEFAULT '{}',
            created_by UUID NOT NULL,
            updated_by UUID NOT NULL,
            synced_from VARCHAR(50),
            last_synced_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		// Естественный ключ для идемпотентного upsert
		`CREATE UNIQUE INDEX IF NOT EXISTS calendar_events_related_unique
            ON calendar_events (related_table, related_id)`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_events_event_date
            ON calendar_events (event_date)`,

		// Журнал сбоев синхронизации
		`CREATE TABLE IF NOT EXISTS calendar_sync_failures (
            failure_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            interaction_id UUID NOT NULL,
            action VARCHAR(20) NOT NULL,
            error_message TEXT NOT NULL,
            error_stack TEXT,
            retry_count INTEGER NOT NULL DEFAULT 0,
            last_retry_at TIMESTAMPTZ,
            next_retry_at TIMESTAMPTZ,
            resolved BOOLEAN NOT NULL DEFAULT FALSE,
            resolved_at TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,

		// Одна нерешённая запись на пару (interaction_id, action)
		`CREATE UNIQUE INDEX IF NOT EXISTS calendar_sync_failures_active_unique
            ON calendar_sync_failures (interaction_id, action)
            WHERE resolved = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_sync_failures_next_retry
            ON calendar_sync_failures (next_retry_at)
            WHERE resolved = FALSE`,

		// Неизменяемый журнал действий
		`CREATE TABLE IF NOT EXISTS calendar_sync_log (
            log_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            interaction_id UUID NOT NULL,
            event_id UUID,
            action VARCHAR(20) NOT NULL,
            status VARCHAR(20) NOT NULL,
            error_message TEXT,
            created_by UUID NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_sync_log_interaction
            ON calendar_sync_log (interaction_id, created_at DESC)`,

		// Отметка последней синхронизации на исходной записи
		`ALTER TABLE interaction
            ADD COLUMN IF NOT EXISTS calendar_synced_at TIMESTAMPTZ`,
		`CREATE INDEX IF NOT EXISTS idx_interaction_calendar_synced_at
            ON interaction (calendar_synced_at)`,
	}

	for _, query := range queries {
		if _, err := db.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("error executing schema statement: %w", classify(err))
		}
	}
	return nil
}

// Begin opens a transaction scoped to one sync attempt.
func (db *DB) Begin(ctx context.Context) (domain.Tx, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	return &attemptTx{tx: tx}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}
