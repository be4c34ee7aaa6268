package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := NewRetrier(zerolog.Nop(), nil)
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 10 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

// The write path wraps driver errors in a sentinel before they reach the
// retrier; the pg error must stay visible through that wrapping.
func TestRetrierRetriesWrappedRetryableError(t *testing.T) {
	r := NewRetrier(zerolog.Nop(), nil)
	r.maxRetries = 3
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 50 * time.Millisecond

	sentinel := errors.New("failed to create transaction")

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("%w: %w", sentinel, &pgconn.PgError{Code: pgErrDeadlock})
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrier(zerolog.Nop(), nil)
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsRetryableError(t *testing.T) {
	retryableErr := &pgconn.PgError{Code: pgErrSerializationFailure}
	if !isRetryableError(retryableErr) {
		t.Fatalf("expected serialization failure to be retryable")
	}

	nonRetryable := errors.New("other")
	if isRetryableError(nonRetryable) {
		t.Fatalf("expected generic error to be non-retryable")
	}
}
