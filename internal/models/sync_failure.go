package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncFailure is a durable record of an exhausted sync or removal attempt.
// At most one unresolved row exists per (InteractionID, Action) pair.
type SyncFailure struct {
	ID            uuid.UUID  `json:"failure_id"`
	InteractionID uuid.UUID  `json:"interaction_id"`
	Action        string     `json:"action"`
	ErrorMessage  string     `json:"error_message"`
	ErrorStack    *string    `json:"error_stack"`
	RetryCount    int        `json:"retry_count"`
	LastRetryAt   *time.Time `json:"last_retry_at"`
	NextRetryAt   *time.Time `json:"next_retry_at"`
	Resolved      bool       `json:"resolved"`
	ResolvedAt    *time.Time `json:"resolved_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
