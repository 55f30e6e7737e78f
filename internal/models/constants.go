package models

import "time"

const (
	EventStatusScheduled = "scheduled"
	EventStatusCancelled = "cancelled"
)

const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionCancel         = "cancel"
	ActionDelete         = "delete"
	ActionCreateOrUpdate = "create_or_update"
	ActionNone           = "none"
)

// Result actions reported by the removal path. The audit log records the
// imperative form above; results use the past tense as callers see them.
const (
	ResultCancelled = "cancelled"
	ResultDeleted   = "deleted"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
	SyncStatusRetry   = "retry"
)

const (
	FailureActionSync   = "sync"
	FailureActionRemove = "remove"
)

const (
	RemovalReasonArchived    = "archived"
	RemovalReasonUnscheduled = "unscheduled"
	RemovalReasonDeleted     = "deleted"
)

// SourceTable is the related_table value for interaction-backed events.
const SourceTable = "interaction"

// DefaultEventType is used when the interaction carries no type.
const DefaultEventType = "interaction"

const (
	// EligibilityWindowDays bounds how far in the past an interaction may be
	// scheduled and still get a calendar event.
	EligibilityWindowDays = 30

	// DefaultMaxAttempts количество попыток внутри одного вызова
	DefaultMaxAttempts = 3

	// DefaultBaseDelay задержка перед второй попыткой
	DefaultBaseDelay = 200 * time.Millisecond

	// DefaultBackoffFactor множитель задержки между попытками
	DefaultBackoffFactor = 2.0

	// FailureBaseInterval базовый интервал для next_retry_at в журнале сбоев
	FailureBaseInterval = 5 * time.Minute

	// DefaultParticipantTTL время жизни кэша имён участников
	DefaultParticipantTTL = 10 * time.Minute
)
