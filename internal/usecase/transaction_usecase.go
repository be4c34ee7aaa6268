package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// TransactionUseCase is the dual-transaction writer: every financial event
// produces a linked pair of ledger entries, one against the customer and one
// against the supervisor (house) account, committed as a single unit.
type TransactionUseCase struct {
	txManager   TransactionManager
	entryRepo   EntryRepository
	balanceRepo BalanceRepository
	userRepo    UserRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase. metrics may be nil.
func NewTransactionUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	balanceRepo BalanceRepository,
	userRepo UserRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
	}
}

// CreateDualTransactionInput carries one financial event. Amounts are
// positive magnitudes; the transaction type dictates the sign convention.
type CreateDualTransactionInput struct {
	Metadata        map[string]any
	OrderID         *string
	CustomerID      string
	SupervisorID    string
	OrderNumber     string
	OrderAccount    string
	CompanyName     string
	Description     string
	TransactionType domain.TransactionType
	CustomerAmount  decimal.Decimal
	BaseAmount      decimal.Decimal
}

// DualTransaction is the linked pair written for one event.
type DualTransaction struct {
	Customer   *domain.LedgerEntry
	Supervisor *domain.LedgerEntry
}

// CreateDualTransaction validates and writes a debit or credit pair.
// Refund pairs are produced by RefundUseCase, which reuses the same atomic
// write path.
func (uc *TransactionUseCase) CreateDualTransaction(ctx context.Context, input CreateDualTransactionInput) (*DualTransaction, error) {
	if input.TransactionType != domain.TransactionTypeDebit && input.TransactionType != domain.TransactionTypeCredit {
		return nil, domain.ErrInvalidTransactionType
	}

	return uc.createPair(ctx, input)
}

// createPair performs the shared validation and atomic dual write for all
// transaction types.
func (uc *TransactionUseCase) createPair(ctx context.Context, input CreateDualTransactionInput) (*DualTransaction, error) {
	// Fail fast before any write is attempted.
	if err := domain.ValidateMagnitude(input.CustomerAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateMagnitude(input.BaseAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrUserNotFound, input.CustomerID)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.SupervisorID); err != nil {
		return nil, fmt.Errorf("%w: supervisor %s", domain.ErrUserNotFound, input.SupervisorID)
	}

	var pair *DualTransaction

	start := time.Now()

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		pair, err = uc.writePair(ctx, input, nil)
		return err
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransactionErrors.WithLabelValues("write").Inc()
		}
		return nil, err
	}

	uc.recordPair(input.TransactionType, start, input.CustomerAmount)

	return pair, nil
}

// recordPair records the business metrics for one committed pair. Refund
// writes share it through RefundUseCase.
func (uc *TransactionUseCase) recordPair(txType domain.TransactionType, start time.Time, customerAmount decimal.Decimal) {
	if uc.metrics == nil {
		return
	}

	uc.metrics.TransactionsCreated.WithLabelValues(string(txType)).Inc()
	uc.metrics.TransactionDuration.Observe(time.Since(start).Seconds())

	amount, _ := customerAmount.Abs().Float64()
	uc.metrics.TransactionAmount.Observe(amount)
}

// writePair commits both entries and both balance updates as one database
// transaction: if anything fails, neither entry is observable afterwards.
// The optional guard runs inside the transaction before any write; refund
// creation uses it to re-verify idempotence at write time.
func (uc *TransactionUseCase) writePair(ctx context.Context, input CreateDualTransactionInput, guard func(context.Context, Transaction) error) (*DualTransaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransactionCreationFailed, err)
	}
	defer tx.Rollback(ctx)

	if guard != nil {
		if err := guard(ctx, tx); err != nil {
			return nil, err
		}
	}

	// Lock both balances in sorted order (deadlock prevention).
	userIDs := []string{input.CustomerID, input.SupervisorID}
	sort.Strings(userIDs)

	balances, err := uc.balanceRepo.GetByUserIDsForUpdate(ctx, tx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransactionCreationFailed, err)
	}

	if len(balances) != len(userIDs) {
		return nil, domain.ErrBalanceNotFound
	}

	balanceByUser := make(map[string]*domain.UserBalance, len(balances))
	for _, b := range balances {
		balanceByUser[b.UserID] = b
	}

	customerBalance := balanceByUser[input.CustomerID]
	supervisorBalance := balanceByUser[input.SupervisorID]

	customerAmount := domain.SignedAmount(input.CustomerAmount, input.TransactionType)
	baseAmount := domain.SignedAmount(input.BaseAmount, input.TransactionType)

	if input.TransactionType.IsDebit() {
		if err := customerBalance.ValidateDebit(input.CustomerAmount); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	customerEntry := &domain.LedgerEntry{
		TransactionID:           uc.idGen.Generate(customerPrefix(input.TransactionType), input.OrderNumber),
		UserID:                  input.CustomerID,
		OrderID:                 input.OrderID,
		OrderNumber:             input.OrderNumber,
		OrderAccount:            input.OrderAccount,
		CompanyName:             input.CompanyName,
		Description:             input.Description,
		TransactionType:         input.TransactionType,
		Status:                  domain.TransactionStatusCompleted,
		Amount:                  customerAmount,
		BaseAmount:              baseAmount,
		PreviousBalance:         customerBalance.Balance,
		CurrentBalance:          customerBalance.Apply(customerAmount),
		IsSupervisorTransaction: false,
		Metadata:                input.Metadata,
		CreatedAt:               now,
	}

	// The supervisor side records the house cost: its amount is the base
	// amount in both columns.
	supervisorEntry := &domain.LedgerEntry{
		TransactionID:           uc.idGen.Generate(domain.TransactionPrefixSupervisor, input.OrderNumber),
		UserID:                  input.SupervisorID,
		OrderID:                 input.OrderID,
		OrderNumber:             input.OrderNumber,
		OrderAccount:            input.OrderAccount,
		CompanyName:             input.CompanyName,
		Description:             input.Description,
		TransactionType:         input.TransactionType,
		Status:                  domain.TransactionStatusCompleted,
		Amount:                  baseAmount,
		BaseAmount:              baseAmount,
		PreviousBalance:         supervisorBalance.Balance,
		CurrentBalance:          supervisorBalance.Apply(baseAmount),
		IsSupervisorTransaction: true,
		Metadata:                input.Metadata,
		CreatedAt:               now,
	}

	if err := customerEntry.Validate(); err != nil {
		return nil, err
	}

	if err := supervisorEntry.Validate(); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.CreateTx(ctx, tx, customerEntry); err != nil {
		return nil, wrapWriteError(err)
	}

	if err := uc.entryRepo.CreateTx(ctx, tx, supervisorEntry); err != nil {
		return nil, wrapWriteError(err)
	}

	if err := uc.balanceRepo.UpdateBalance(ctx, tx, input.CustomerID, customerEntry.CurrentBalance, now); err != nil {
		return nil, wrapWriteError(err)
	}

	if err := uc.balanceRepo.UpdateBalance(ctx, tx, input.SupervisorID, supervisorEntry.CurrentBalance, now); err != nil {
		return nil, wrapWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapWriteError(err)
	}

	return &DualTransaction{Customer: customerEntry, Supervisor: supervisorEntry}, nil
}

func customerPrefix(txType domain.TransactionType) string {
	if txType == domain.TransactionTypeRefund {
		return domain.TransactionPrefixRefund
	}
	return domain.TransactionPrefixOrder
}

func wrapWriteError(err error) error {
	if err == nil {
		return nil
	}
	// A duplicate refund detected by the storage-layer unique index is a
	// success path for the caller, not a creation failure.
	if errors.Is(err, domain.ErrDuplicateRefund) {
		return err
	}
	// Double-wrap so the retrier can still see the driver error underneath:
	// deadlock and serialization failures must stay recognizable as such.
	return fmt.Errorf("%w: %w", domain.ErrTransactionCreationFailed, err)
}

// GetTransaction retrieves a single entry by its transaction ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByTransactionID(ctx, transactionID)
}

// ListUserTransactions lists a user's ledger entries, newest first.
func (uc *TransactionUseCase) ListUserTransactions(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.entryRepo.ListByUser(ctx, userID, limit, offset)
}

// GetOrderTransactions lists every entry written for an order.
func (uc *TransactionUseCase) GetOrderTransactions(ctx context.Context, orderID string) ([]*domain.LedgerEntry, error) {
	return uc.entryRepo.GetByOrder(ctx, orderID)
}
