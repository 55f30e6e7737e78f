package database

import (
	"context"
	"errors"
	"fmt"

	"calsync/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// attemptTx wraps a pgx transaction for a single sync attempt.
type attemptTx struct {
	tx pgx.Tx
}

// UpsertEvent inserts or updates the event row keyed on
// (related_table, related_id) and reports whether a new row was created.
// The inserted flag comes from the statement itself, not a pre-check, so
// concurrent syncs cannot race between check and write.
func (t *attemptTx) UpsertEvent(ctx context.Context, event *models.CalendarEvent) (uuid.UUID, bool, error) {
	query := `
        INSERT INTO calendar_events (
            title, description, event_date, start_time, end_time, all_day,
            event_type, event_status, related_table, related_id, location, participants,
            created_by, updated_by, synced_from, last_synced_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        ON CONFLICT (related_table, related_id)
        DO UPDATE SET
            title = EXCLUDED.title,
            description = EXCLUDED.description,
            event_date = EXCLUDED.event_date,
            start_time = EXCLUDED.start_time,
            end_time = EXCLUDED.end_time,
            all_day = EXCLUDED.all_day,
            event_type = EXCLUDED.event_type,
            location = EXCLUDED.location,
            participants = EXCLUDED.participants,
            updated_by = EXCLUDED.updated_by,
            updated_at = NOW(),
            last_synced_at = EXCLUDED.last_synced_at
        RETURNING event_id, (xmax = 0) AS was_inserted
    `

	var eventID uuid.UUID
	var inserted bool
	err := t.tx.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.EventDate,
		event.StartTime,
		event.EndTime,
		event.AllDay,
		event.EventType,
		event.EventStatus,
		event.RelatedTable,
		event.RelatedID,
		event.Location,
		event.Participants,
		event.CreatedBy,
		event.UpdatedBy,
		event.SyncedFrom,
		event.LastSyncedAt,
	).Scan(&eventID, &inserted)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to upsert calendar event: %w", classify(err))
	}

	return eventID, inserted, nil
}

// CancelEvent marks the event cancelled but keeps the row so a later
// re-sync can reuse its calendar slot.
func (t *attemptTx) CancelEvent(ctx context.Context, relatedID uuid.UUID, actorID uuid.UUID) (uuid.UUID, bool, error) {
	query := `
        UPDATE calendar_events
        SET event_status = $1, updated_by = $2, updated_at = NOW()
        WHERE related_table = $3 AND related_id = $4
        RETURNING event_id
    `

	var eventID uuid.UUID
	err := t.tx.QueryRow(ctx, query, models.EventStatusCancelled, actorID, models.SourceTable, relatedID).Scan(&eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to cancel calendar event: %w", classify(err))
	}

	return eventID, true, nil
}

// DeleteEvent removes the event row permanently.
func (t *attemptTx) DeleteEvent(ctx context.Context, relatedID uuid.UUID) (uuid.UUID, bool, error) {
	query := `
        DELETE FROM calendar_events
        WHERE related_table = $1 AND related_id = $2
        RETURNING event_id
    `

	var eventID uuid.UUID
	err := t.tx.QueryRow(ctx, query, models.SourceTable, relatedID).Scan(&eventID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to delete calendar event: %w", classify(err))
	}

	return eventID, true, nil
}

// StampInteractionSynced is the one write the engine makes on the owning
// CRM record.
func (t *attemptTx) StampInteractionSynced(ctx context.Context, interactionID uuid.UUID) error {
	query := `UPDATE interaction SET calendar_synced_at = NOW() WHERE interaction_id = $1`
	if _, err := t.tx.Exec(ctx, query, interactionID); err != nil {
		return fmt.Errorf("failed to stamp interaction: %w", classify(err))
	}
	return nil
}

func (t *attemptTx) ResolveFailure(ctx context.Context, interactionID uuid.UUID, action string) error {
	query := `
        UPDATE calendar_sync_failures
        SET resolved = TRUE, resolved_at = NOW()
        WHERE interaction_id = $1 AND action = $2 AND resolved = FALSE
    `
	if _, err := t.tx.Exec(ctx, query, interactionID, action); err != nil {
		return fmt.Errorf("failed to resolve sync failure: %w", classify(err))
	}
	return nil
}

func (t *attemptTx) AppendSyncLog(ctx context.Context, entry *models.SyncLogEntry) error {
	return appendSyncLog(ctx, t.tx, entry)
}

func (t *attemptTx) CustomerName(ctx context.Context, customerID uuid.UUID) (string, error) {
	var name string
	err := t.tx.QueryRow(ctx,
		`SELECT company_name FROM customer WHERE customer_id = $1`, customerID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up customer name: %w", classify(err))
	}
	return name, nil
}

func (t *attemptTx) ContactName(ctx context.Context, contactID uuid.UUID) (string, error) {
	var name string
	err := t.tx.QueryRow(ctx,
		`SELECT first_name || ' ' || last_name FROM contact WHERE contact_id = $1`, contactID,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up contact name: %w", classify(err))
	}
	return name, nil
}

func (t *attemptTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit sync transaction: %w", classify(err))
	}
	return nil
}

func (t *attemptTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
