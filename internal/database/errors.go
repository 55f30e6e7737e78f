package database

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound reports that a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// TransientError tags a store failure that is safe to retry. Everything
// not carrying this tag is treated as permanent.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// SQLSTATE classes that clear up on their own: serialization failures,
// deadlocks, connection churn and pool exhaustion.
var transientSQLStates = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"53300": {}, // too_many_connections
	"57P03": {}, // cannot_connect_now
	"55P03": {}, // lock_not_available
	"08006": {}, // connection_failure
	"08003": {}, // connection_does_not_exist
	"58000": {}, // system_error
}

var transientMessage = regexp.MustCompile(`(?i)timeout|deadlock|connection`)

// classify wraps driver errors that match a transient SQLSTATE or message
// pattern. nil and already-tagged errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var te *TransientError
	if errors.As(err, &te) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := transientSQLStates[pgErr.SQLState()]; ok {
			return &TransientError{Err: err}
		}
	}

	if transientMessage.MatchString(err.Error()) {
		return &TransientError{Err: err}
	}

	return err
}

// IsTransient is the retry classifier: with the storage layer producing
// tagged errors it reduces to a type check.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
