package database

import (
	"context"
	"fmt"
	"time"

	"calsync/internal/models"

	"github.com/google/uuid"
)

// RecordFailure upserts the unresolved ledger row for (interaction_id,
// action): first failure starts at retry_count 0 with next_retry_at one
// base interval out, repeats double the wait. The partial unique index
// keeps one active row per pair.
func (db *DB) RecordFailure(ctx context.Context, interactionID uuid.UUID, action string, cause error, baseInterval time.Duration) error {
	query := `
        INSERT INTO calendar_sync_failures (interaction_id, action, error_message, error_stack, next_retry_at)
        VALUES ($1, $2, $3, $4, NOW() + make_interval(secs => $5))
        ON CONFLICT (interaction_id, action)
        WHERE resolved = FALSE
        DO UPDATE SET
            retry_count = calendar_sync_failures.retry_count + 1,
            error_message = EXCLUDED.error_message,
            error_stack = EXCLUDED.error_stack,
            last_retry_at = NOW(),
            next_retry_at = NOW() + (make_interval(secs => $5) * POWER(2, calendar_sync_failures.retry_count + 1))
    `

	errStack := fmt.Sprintf("%+v", cause)
	_, err := db.pool.Exec(ctx, query,
		interactionID,
		action,
		cause.Error(),
		errStack,
		baseInterval.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record sync failure: %w", classify(err))
	}

	return nil
}

// UnresolvedFailures returns active ledger rows ordered by next_retry_at,
// soonest first, for the external reconciliation process.
func (db *DB) UnresolvedFailures(ctx context.Context) ([]models.SyncFailure, error) {
	query := `
        SELECT failure_id, interaction_id, action, error_message, error_stack,
               retry_count, last_retry_at, next_retry_at, resolved, resolved_at, created_at
        FROM calendar_sync_failures
        WHERE resolved = FALSE
        ORDER BY next_retry_at ASC NULLS LAST
    `

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get unresolved failures: %w", classify(err))
	}
	defer rows.Close()

	var failures []models.SyncFailure
	for rows.Next() {
		var f models.SyncFailure
		err := rows.Scan(
			&f.ID, &f.InteractionID, &f.Action, &f.ErrorMessage, &f.ErrorStack,
			&f.RetryCount, &f.LastRetryAt, &f.NextRetryAt, &f.Resolved, &f.ResolvedAt, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync failure: %w", err)
		}
		failures = append(failures, f)
	}

	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}

	return failures, nil
}
