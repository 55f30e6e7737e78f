package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncLogEntry is an append-only audit record of a sync action.
type SyncLogEntry struct {
	ID            uuid.UUID  `json:"log_id"`
	InteractionID uuid.UUID  `json:"interaction_id"`
	EventID       *uuid.UUID `json:"event_id"`
	Action        string     `json:"action"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}
