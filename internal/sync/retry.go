package sync

import (
	"context"
	"math"
	"time"

	"calsync/internal/database"

	"github.com/rs/zerolog"
)

// RetryPolicy defines exponential backoff parameters for in-process
// retries of a single sync attempt.
type RetryPolicy struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func (r RetryPolicy) normalized() RetryPolicy {
	if r.MaxAttempts <= 0 {
		r.MaxAttempts = 3
	}
	if r.BaseDelay <= 0 {
		r.BaseDelay = 200 * time.Millisecond
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}
	return r
}

// Delay returns the wait after a failed attempt (1-based) with clamping.
func (r RetryPolicy) Delay(attempt int) time.Duration {
	r = r.normalized()
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(r.BaseDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = r.BaseDelay
	}
	return d
}

// RunWithRetry invokes op starting at attempt 1 and blocks the caller for
// the whole sequence. A non-transient error or an exhausted budget
// surfaces the last error unchanged; only transient store errors sleep
// and retry.
func RunWithRetry(ctx context.Context, policy RetryPolicy, logger *zerolog.Logger, op func(attempt int) error) error {
	policy = policy.normalized()

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			logger.Info().Int("attempt", attempt).Int("max_attempts", policy.MaxAttempts).Msg("retrying calendar sync operation")
		}

		err := op(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !database.IsTransient(err) || attempt >= policy.MaxAttempts {
			return err
		}

		delay := policy.Delay(attempt)
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", policy.MaxAttempts).
			Dur("delay", delay).
			Msg("transient store error, will retry")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
