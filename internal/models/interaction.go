package models

import (
	"time"

	"github.com/google/uuid"
)

// Interaction is the CRM record the engine syncs from. It is owned by the
// CRM module; the engine only reads it and stamps CalendarSyncedAt.
type Interaction struct {
	ID               uuid.UUID  `json:"interaction_id"`
	Type             string     `json:"interaction_type"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	ScheduledAt      *time.Time `json:"interaction_date"`
	DurationMinutes  int        `json:"duration_minutes"`
	Location         string     `json:"location"`
	Archived         bool       `json:"archived"`
	CustomerID       *uuid.UUID `json:"customer_id"`
	ContactID        *uuid.UUID `json:"contact_id"`
	CalendarSyncedAt *time.Time `json:"calendar_synced_at"`
}

// AllDay reports whether the interaction maps to an all-day event.
func (i Interaction) AllDay() bool {
	return i.DurationMinutes <= 0
}
