package sync

import (
	"context"
	"errors"
	"time"

	"calsync/internal/config"
	"calsync/internal/database"
	"calsync/internal/domain"
	"calsync/internal/metrics"
	"calsync/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	participantKindCustomer = "customer"
	participantKindContact  = "contact"
)

// Engine synchronizes interaction records into the calendar_events table.
// All operations run to completion within the calling request; there is no
// background worker behind them.
type Engine struct {
	store        domain.Store
	participants domain.ParticipantCache
	policy       RetryPolicy
	window       time.Duration
	failureBase  time.Duration
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewEngine(store domain.Store, participants domain.ParticipantCache, cfg config.SyncConfig, logger *zerolog.Logger) *Engine {
	policy := RetryPolicy{
		MaxAttempts:   cfg.MaxAttempts,
		BaseDelay:     cfg.BaseDelay,
		BackoffFactor: cfg.BackoffFactor,
	}.normalized()

	windowDays := cfg.EligibilityWindowDays
	if windowDays <= 0 {
		windowDays = models.EligibilityWindowDays
	}
	failureBase := cfg.FailureBaseInterval
	if failureBase <= 0 {
		failureBase = models.FailureBaseInterval
	}

	return &Engine{
		store:        store,
		participants: participants,
		policy:       policy,
		window:       time.Duration(windowDays) * 24 * time.Hour,
		failureBase:  failureBase,
		logger:       logger,
		now:          time.Now,
	}
}

// ShouldSync re-exposes the eligibility gate to callers structuring their
// own writes around it.
func (e *Engine) ShouldSync(interaction *models.Interaction) bool {
	reason := ineligibleReason(interaction, e.now(), e.window)
	if reason != "" && interaction != nil {
		e.logger.Debug().
			Str("interaction_id", interaction.ID.String()).
			Str("reason", reason).
			Msg("interaction does not meet sync criteria")
	}
	return reason == ""
}

// SyncInteractionToCalendar creates or updates the calendar event for an
// eligible interaction. Idempotent: safe to call any number of times for
// the same interaction. Failures come back as a structured result, never
// as an error the caller has to unwind its own write for.
func (e *Engine) SyncInteractionToCalendar(ctx context.Context, interaction *models.Interaction, actorID uuid.UUID) models.SyncResult {
	started := e.now()

	if reason := ineligibleReason(interaction, started, e.window); reason != "" {
		if interaction != nil {
			e.logger.Debug().
				Str("interaction_id", interaction.ID.String()).
				Str("reason", reason).
				Msg("skipping calendar sync")
		}
		return models.SyncResult{Success: true, Skipped: true, Reason: reason}
	}

	var eventID uuid.UUID
	var action string
	err := RunWithRetry(ctx, e.policy, e.logger, func(attempt int) error {
		if attempt > 1 {
			metrics.IncRetry("sync")
		}
		id, act, err := e.performSync(ctx, interaction, actorID)
		if err != nil {
			e.logger.Error().
				Err(err).
				Str("interaction_id", interaction.ID.String()).
				Int("attempt", attempt).
				Msg("calendar sync attempt failed")
			return err
		}
		eventID, action = id, act
		return nil
	})

	duration := e.now().Sub(started)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("interaction_id", interaction.ID.String()).
			Str("actor_id", actorID.String()).
			Msg("calendar sync failed after retries")

		e.recordFailure(ctx, interaction.ID, models.FailureActionSync, err)
		e.appendFailureLog(ctx, interaction.ID, models.ActionCreateOrUpdate, err, actorID)
		metrics.IncSync(models.ActionCreateOrUpdate, models.SyncStatusFailed)
		metrics.ObserveDuration("sync", duration)

		return models.SyncResult{Success: false, Error: err.Error(), DurationMS: duration.Milliseconds()}
	}

	e.logger.Info().
		Str("interaction_id", interaction.ID.String()).
		Str("event_id", eventID.String()).
		Str("action", action).
		Dur("duration", duration).
		Msg("calendar sync completed")
	metrics.IncSync(action, models.SyncStatusSuccess)
	metrics.ObserveDuration("sync", duration)

	return models.SyncResult{
		Success:    true,
		EventID:    &eventID,
		Action:     action,
		DurationMS: duration.Milliseconds(),
	}
}

// performSync is one transactional attempt.
func (e *Engine) performSync(ctx context.Context, interaction *models.Interaction, actorID uuid.UUID) (uuid.UUID, string, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return uuid.Nil, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }() // no-op after commit

	scheduled := *interaction.ScheduledAt
	event := &models.CalendarEvent{
		Title:        interaction.Subject,
		Description:  nilIfEmpty(interaction.Description),
		EventDate:    scheduled,
		StartTime:    scheduled.Format("15:04:05"),
		EndTime:      endTime(scheduled, interaction.DurationMinutes),
		AllDay:       interaction.AllDay(),
		EventType:    eventType(interaction),
		EventStatus:  models.EventStatusScheduled,
		RelatedTable: models.SourceTable,
		RelatedID:    interaction.ID,
		Location:     nilIfEmpty(interaction.Location),
		Participants: e.resolveParticipants(ctx, tx, interaction),
		CreatedBy:    actorID,
		UpdatedBy:    actorID,
		SyncedFrom:   models.SourceTable,
		LastSyncedAt: e.now(),
	}

	eventID, inserted, err := tx.UpsertEvent(ctx, event)
	if err != nil {
		return uuid.Nil, "", err
	}
	action := models.ActionUpdate
	if inserted {
		action = models.ActionCreate
	}

	if err := tx.StampInteractionSynced(ctx, interaction.ID); err != nil {
		return uuid.Nil, "", err
	}

	if err := tx.ResolveFailure(ctx, interaction.ID, models.FailureActionSync); err != nil {
		e.logger.Warn().Err(err).Str("interaction_id", interaction.ID.String()).Msg("failed to resolve sync failure record")
	}

	e.appendAuditInTx(ctx, tx, &models.SyncLogEntry{
		InteractionID: interaction.ID,
		EventID:       &eventID,
		Action:        action,
		Status:        models.SyncStatusSuccess,
		CreatedBy:     actorID,
	})

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, "", err
	}

	return eventID, action, nil
}

// RemoveInteractionCalendar cancels or deletes the calendar event for an
// interaction. Reasons archived and unscheduled cancel the event so a
// later re-sync can reuse the row; deleted removes it for good. A missing
// event is a normal outcome, not an error.
func (e *Engine) RemoveInteractionCalendar(ctx context.Context, interactionID uuid.UUID, actorID uuid.UUID, reason string) models.SyncResult {
	started := e.now()
	cancel := reason == models.RemovalReasonArchived || reason == models.RemovalReasonUnscheduled
	auditAction := models.ActionDelete
	if cancel {
		auditAction = models.ActionCancel
	}

	var result models.SyncResult
	err := RunWithRetry(ctx, e.policy, e.logger, func(attempt int) error {
		if attempt > 1 {
			metrics.IncRetry("remove")
		}
		res, err := e.performRemoval(ctx, interactionID, actorID, cancel)
		if err != nil {
			e.logger.Error().
				Err(err).
				Str("interaction_id", interactionID.String()).
				Str("reason", reason).
				Int("attempt", attempt).
				Msg("calendar event removal attempt failed")
			return err
		}
		result = res
		return nil
	})

	duration := e.now().Sub(started)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("interaction_id", interactionID.String()).
			Str("reason", reason).
			Msg("calendar event removal failed after retries")

		e.recordFailure(ctx, interactionID, models.FailureActionRemove, err)
		e.appendFailureLog(ctx, interactionID, auditAction, err, actorID)
		metrics.IncSync(auditAction, models.SyncStatusFailed)
		metrics.ObserveDuration("remove", duration)

		return models.SyncResult{Success: false, Error: err.Error(), DurationMS: duration.Milliseconds()}
	}

	e.logger.Info().
		Str("interaction_id", interactionID.String()).
		Str("action", result.Action).
		Dur("duration", duration).
		Msg("calendar event removal completed")
	metrics.IncSync(auditAction, models.SyncStatusSuccess)
	metrics.ObserveDuration("remove", duration)

	result.DurationMS = duration.Milliseconds()
	return result
}

func (e *Engine) performRemoval(ctx context.Context, interactionID uuid.UUID, actorID uuid.UUID, cancel bool) (models.SyncResult, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var eventID uuid.UUID
	var found bool
	var resultAction, auditAction string
	if cancel {
		eventID, found, err = tx.CancelEvent(ctx, interactionID, actorID)
		resultAction, auditAction = models.ResultCancelled, models.ActionCancel
	} else {
		eventID, found, err = tx.DeleteEvent(ctx, interactionID)
		resultAction, auditAction = models.ResultDeleted, models.ActionDelete
	}
	if err != nil {
		return models.SyncResult{}, err
	}

	if !found {
		if err := tx.Commit(ctx); err != nil {
			return models.SyncResult{}, err
		}
		e.logger.Info().
			Str("interaction_id", interactionID.String()).
			Msg("no calendar event found to remove")
		return models.SyncResult{Success: true, Action: models.ActionNone, Reason: "no calendar event found"}, nil
	}

	if err := tx.ResolveFailure(ctx, interactionID, models.FailureActionRemove); err != nil {
		e.logger.Warn().Err(err).Str("interaction_id", interactionID.String()).Msg("failed to resolve removal failure record")
	}

	e.appendAuditInTx(ctx, tx, &models.SyncLogEntry{
		InteractionID: interactionID,
		EventID:       &eventID,
		Action:        auditAction,
		Status:        models.SyncStatusSuccess,
		CreatedBy:     actorID,
	})

	if err := tx.Commit(ctx); err != nil {
		return models.SyncResult{}, err
	}

	return models.SyncResult{Success: true, EventID: &eventID, Action: resultAction}, nil
}

// resolveParticipants collects display names for the related customer and
// contact, in that order. Lookups are best-effort: a miss or error drops
// the participant, never the sync.
func (e *Engine) resolveParticipants(ctx context.Context, tx domain.Tx, interaction *models.Interaction) []string {
	participants := []string{}

	if interaction.CustomerID != nil {
		if name, ok := e.lookupName(ctx, participantKindCustomer, *interaction.CustomerID, func() (string, error) {
			return tx.CustomerName(ctx, *interaction.CustomerID)
		}); ok {
			participants = append(participants, name)
		}
	}

	if interaction.ContactID != nil {
		if name, ok := e.lookupName(ctx, participantKindContact, *interaction.ContactID, func() (string, error) {
			return tx.ContactName(ctx, *interaction.ContactID)
		}); ok {
			participants = append(participants, name)
		}
	}

	return participants
}

func (e *Engine) lookupName(ctx context.Context, kind string, id uuid.UUID, fetch func() (string, error)) (string, bool) {
	if e.participants != nil {
		if name, ok, err := e.participants.GetName(ctx, kind, id); err == nil && ok && name != "" {
			return name, true
		}
	}

	name, err := fetch()
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			e.logger.Debug().Str("kind", kind).Str("id", id.String()).Msg("participant record not found")
		} else {
			e.logger.Warn().Err(err).Str("kind", kind).Str("id", id.String()).Msg("failed to fetch participant, continuing without")
		}
		return "", false
	}
	if name == "" {
		return "", false
	}

	if e.participants != nil {
		if err := e.participants.SetName(ctx, kind, id, name); err != nil {
			e.logger.Debug().Err(err).Str("kind", kind).Msg("participant cache write failed")
		}
	}

	return name, true
}

// appendAuditInTx swallows audit-log errors: the log being unavailable
// must not block the primary operation.
func (e *Engine) appendAuditInTx(ctx context.Context, tx domain.Tx, entry *models.SyncLogEntry) {
	if err := tx.AppendSyncLog(ctx, entry); err != nil {
		e.logger.Error().
			Err(err).
			Str("interaction_id", entry.InteractionID.String()).
			Str("action", entry.Action).
			Msg("failed to write sync audit log")
	}
}

func (e *Engine) recordFailure(ctx context.Context, interactionID uuid.UUID, action string, cause error) {
	if err := e.store.RecordFailure(ctx, interactionID, action, cause, e.failureBase); err != nil {
		e.logger.Error().
			Err(err).
			Str("interaction_id", interactionID.String()).
			Str("action", action).
			Msg("failed to record sync failure")
		return
	}
	e.logger.Info().
		Str("interaction_id", interactionID.String()).
		Str("action", action).
		Msg("sync failure recorded for reconciliation")
}

func (e *Engine) appendFailureLog(ctx context.Context, interactionID uuid.UUID, action string, cause error, actorID uuid.UUID) {
	msg := cause.Error()
	entry := &models.SyncLogEntry{
		InteractionID: interactionID,
		Action:        action,
		Status:        models.SyncStatusFailed,
		ErrorMessage:  &msg,
		CreatedBy:     actorID,
	}
	if err := e.store.AppendSyncLog(ctx, entry); err != nil {
		e.logger.Error().
			Err(err).
			Str("interaction_id", interactionID.String()).
			Msg("failed to write sync audit log")
	}
}

// endTime derives HH:MM:SS for the event end, nil for all-day.
func endTime(start time.Time, durationMinutes int) *string {
	if durationMinutes <= 0 {
		return nil
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute).Format("15:04:05")
	return &end
}

func eventType(interaction *models.Interaction) string {
	if interaction.Type == "" {
		return models.DefaultEventType
	}
	return interaction.Type
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
