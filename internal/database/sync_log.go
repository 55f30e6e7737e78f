package database

import (
	"context"
	"fmt"

	"calsync/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// execer covers both the pool and a transaction for the append path.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func appendSyncLog(ctx context.Context, ex execer, entry *models.SyncLogEntry) error {
	query := `
        INSERT INTO calendar_sync_log (interaction_id, event_id, action, status, error_message, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := ex.Exec(ctx, query,
		entry.InteractionID,
		entry.EventID,
		entry.Action,
		entry.Status,
		entry.ErrorMessage,
		entry.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to append sync log: %w", classify(err))
	}
	return nil
}

// AppendSyncLog writes an audit row outside any transaction, used on the
// failure path after retries are exhausted.
func (db *DB) AppendSyncLog(ctx context.Context, entry *models.SyncLogEntry) error {
	return appendSyncLog(ctx, db.pool, entry)
}

// RecentSyncLog returns the newest audit rows, newest first.
func (db *DB) RecentSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error) {
	query := `
        SELECT log_id, interaction_id, event_id, action, status, error_message, created_by, created_at
        FROM calendar_sync_log
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := db.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync log: %w", classify(err))
	}
	defer rows.Close()

	var entries []models.SyncLogEntry
	for rows.Next() {
		var e models.SyncLogEntry
		err := rows.Scan(
			&e.ID, &e.InteractionID, &e.EventID, &e.Action, &e.Status,
			&e.ErrorMessage, &e.CreatedBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}

	return entries, nil
}
