package domain

import (
	"context"
	"time"

	"calsync/internal/models"

	"github.com/google/uuid"
)

// Tx scopes a single sync attempt to one database transaction. All writes
// performed through it become visible together on Commit.
type Tx interface {
	UpsertEvent(ctx context.Context, event *models.CalendarEvent) (eventID uuid.UUID, inserted bool, err error)
	CancelEvent(ctx context.Context, relatedID uuid.UUID, actorID uuid.UUID) (eventID uuid.UUID, found bool, err error)
	DeleteEvent(ctx context.Context, relatedID uuid.UUID) (eventID uuid.UUID, found bool, err error)
	StampInteractionSynced(ctx context.Context, interactionID uuid.UUID) error
	ResolveFailure(ctx context.Context, interactionID uuid.UUID, action string) error
	AppendSyncLog(ctx context.Context, entry *models.SyncLogEntry) error
	CustomerName(ctx context.Context, customerID uuid.UUID) (string, error)
	ContactName(ctx context.Context, contactID uuid.UUID) (string, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is the engine's view of the relational store.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	RecordFailure(ctx context.Context, interactionID uuid.UUID, action string, cause error, baseInterval time.Duration) error
	AppendSyncLog(ctx context.Context, entry *models.SyncLogEntry) error
	UnresolvedFailures(ctx context.Context) ([]models.SyncFailure, error)
	RecentSyncLog(ctx context.Context, limit int) ([]models.SyncLogEntry, error)
}

// ParticipantCache fronts the customer/contact display-name lookups.
type ParticipantCache interface {
	GetName(ctx context.Context, kind string, id uuid.UUID) (string, bool, error)
	SetName(ctx context.Context, kind string, id uuid.UUID, name string) error
}

// SyncEngine is what CRM write handlers call after mutating interactions.
type SyncEngine interface {
	ShouldSync(interaction *models.Interaction) bool
	SyncInteractionToCalendar(ctx context.Context, interaction *models.Interaction, actorID uuid.UUID) models.SyncResult
	RemoveInteractionCalendar(ctx context.Context, interactionID uuid.UUID, actorID uuid.UUID, reason string) models.SyncResult
}
