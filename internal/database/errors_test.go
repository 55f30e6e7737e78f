package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTransientSQLStates(t *testing.T) {
	codes := []string{"40001", "40P01", "53300", "57P03", "55P03", "08006", "08003", "58000"}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			err := classify(&pgconn.PgError{Code: code, Message: "some failure"})
			assert.True(t, IsTransient(err))
		})
	}
}

func TestClassifyPermanentSQLStates(t *testing.T) {
	codes := []string{
		"23505", // unique_violation
		"23502", // not_null_violation
		"42P01", // undefined_table
		"22P02", // invalid_text_representation
	}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			err := classify(&pgconn.PgError{Code: code, Message: "some failure"})
			assert.False(t, IsTransient(err))
		})
	}
}

func TestClassifyMessagePatterns(t *testing.T) {
	transient := []string{
		"write: i/o timeout",
		"ERROR: deadlock detected",
		"connection reset by peer",
		"Connection refused",
		"statement TIMEOUT exceeded",
	}
	for _, msg := range transient {
		t.Run(msg, func(t *testing.T) {
			assert.True(t, IsTransient(classify(errors.New(msg))))
		})
	}

	permanent := []string{
		"duplicate key value violates unique constraint",
		"null value in column violates not-null constraint",
		"permission denied for table calendar_events",
	}
	for _, msg := range permanent {
		t.Run(msg, func(t *testing.T) {
			assert.False(t, IsTransient(classify(errors.New(msg))))
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, classify(nil))
}

func TestClassifyIdempotent(t *testing.T) {
	inner := &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}

	once := classify(inner)
	twice := classify(once)
	assert.Same(t, once, twice)
}

func TestClassifyWrappedDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	wrapped := fmt.Errorf("upsert calendar event: %w", pgErr)

	err := classify(wrapped)
	require.True(t, IsTransient(err))

	// исходная ошибка остаётся доступной через цепочку
	var target *pgconn.PgError
	assert.True(t, errors.As(err, &target))
}

func TestTransientErrorUnwrap(t *testing.T) {
	inner := errors.New("connection failure")
	err := &TransientError{Err: inner}

	assert.Equal(t, inner.Error(), err.Error())
	assert.ErrorIs(t, err, inner)
}
