package models

import (
	"time"

	"github.com/google/uuid"
)

// CalendarEvent is the synced calendar representation of an interaction.
// The (RelatedTable, RelatedID) pair is the natural key used for the
// idempotent upsert.
type CalendarEvent struct {
	ID           uuid.UUID  `json:"event_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	EventDate    time.Time  `json:"event_date"`
	StartTime    string     `json:"start_time"`
	EndTime      *string    `json:"end_time"`
	AllDay       bool       `json:"all_day"`
	EventType    string     `json:"event_type"`
	EventStatus  string     `json:"event_status"`
	RelatedTable string     `json:"related_table"`
	RelatedID    uuid.UUID  `json:"related_id"`
	Location     *string    `json:"location"`
	Participants []string   `json:"participants"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	UpdatedBy    uuid.UUID  `json:"updated_by"`
	SyncedFrom   string     `json:"synced_from"`
	LastSyncedAt time.Time  `json:"last_synced_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
