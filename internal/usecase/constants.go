package usecase

import "time"

const (
	// RefundLockTTL bounds how long a crashed refund request can hold the
	// advisory per-order lock.
	RefundLockTTL = 30 * time.Second

	// RefundLockRetryInterval is the pause between advisory lock attempts.
	RefundLockRetryInterval = 100 * time.Millisecond

	// RefundLockAttempts is how many times a refund request tries the
	// advisory lock before proceeding without it.
	RefundLockAttempts = 3

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// PriceRatioCacheTTL is how long a customer's price ratio is cached.
	PriceRatioCacheTTL = 5 * time.Minute
)
