package models

import "github.com/google/uuid"

// SyncResult is the structured outcome of a sync or removal call. A failed
// result is returned, never raised, so the caller's own write is not
// blocked by calendar trouble.
type SyncResult struct {
	Success    bool       `json:"success"`
	Skipped    bool       `json:"skipped,omitempty"`
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	Action     string     `json:"action,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Error      string     `json:"error,omitempty"`
	DurationMS int64      `json:"duration_ms,omitempty"`
}
