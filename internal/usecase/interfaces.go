package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
)

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)
	GetByOrder(ctx context.Context, orderID string) ([]*domain.LedgerEntry, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// FindRefund returns the customer-side refund entry for (orderID, userID),
	// or nil when none exists.
	FindRefund(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error)
	// FindRefundTx is the write-time re-check of FindRefund, executed inside
	// the surrounding transaction so a concurrent duplicate cannot slip
	// between read and write.
	FindRefundTx(ctx context.Context, tx Transaction, orderID, userID string) (*domain.LedgerEntry, error)
	// FindDebit returns the customer-side debit entry for (orderID, userID),
	// or nil when none exists.
	FindDebit(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error)
}

// BalanceRepository defines data access for user balances.
type BalanceRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.UserBalance, error)
	GetByUserIDsForUpdate(ctx context.Context, tx Transaction, userIDs []string) ([]*domain.UserBalance, error)
	UpdateBalance(ctx context.Context, tx Transaction, userID string, balance decimal.Decimal, updatedAt time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// OrderRepository defines read access to the order-management collaborator's
// records. This service never mutates order status.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// OrderDrift is one row of the dual-ledger drift report: for a healthy order
// the customer-side base amount total and the supervisor-side amount total
// cancel out.
type OrderDrift struct {
	OrderID         string
	CustomerTotal   decimal.Decimal
	SupervisorTotal decimal.Decimal
	Drift           decimal.Decimal
}

// LedgerRepository defines ledger-wide read operations.
type LedgerRepository interface {
	// Drift reports orders whose paired ledgers disagree.
	Drift(ctx context.Context, limit int) ([]*OrderDrift, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates audit-friendly transaction IDs. The uniqueness
// suffix is collision resistant by construction; callers never derive IDs
// from row counts.
type IDGenerator interface {
	Generate(prefix, orderRef string) string
}

// Retrier retries an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Locker is an advisory distributed lock. It reduces duplicate work under
// concurrent refund requests; correctness never depends on it.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage for HTTP retries.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
