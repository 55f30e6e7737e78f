package sync

import (
	"strings"
	"time"

	"calsync/internal/models"
)

// Eligible reports whether the interaction currently warrants a calendar
// event. Pure predicate, no I/O.
func Eligible(interaction *models.Interaction, now time.Time, window time.Duration) bool {
	return ineligibleReason(interaction, now, window) == ""
}

// ineligibleReason returns "" for an eligible interaction, otherwise a
// short reason suitable for a debug log.
func ineligibleReason(interaction *models.Interaction, now time.Time, window time.Duration) string {
	if interaction == nil {
		return "interaction is nil"
	}
	if strings.TrimSpace(interaction.Subject) == "" {
		return "subject is empty"
	}
	if interaction.ScheduledAt == nil {
		return "scheduled date is missing"
	}
	if interaction.Archived {
		return "interaction is archived"
	}
	// Stale history stays off the calendar: nobody scrolls back to a
	// month-old call.
	if interaction.ScheduledAt.Before(now.Add(-window)) {
		return "scheduled date too old"
	}
	return ""
}
