package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// RefundUseCase derives and writes refund pairs from prior debits. Refund
// creation is idempotent by design: a second call for the same (order, user)
// returns the existing entry instead of failing.
type RefundUseCase struct {
	txUC      *TransactionUseCase
	entryRepo EntryRepository
	orderRepo OrderRepository
	userRepo  UserRepository
	locker    Locker
	logger    zerolog.Logger
	metrics   *metrics.Metrics
}

// NewRefundUseCase creates a new RefundUseCase. metrics may be nil.
func NewRefundUseCase(
	txUC *TransactionUseCase,
	entryRepo EntryRepository,
	orderRepo OrderRepository,
	userRepo UserRepository,
	locker Locker,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *RefundUseCase {
	return &RefundUseCase{
		txUC:      txUC,
		entryRepo: entryRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		locker:    locker,
		logger:    logger,
		metrics:   metrics,
	}
}

// CreateRefundInput carries a refund request. Zero amounts mean "derive":
// from the original debit when it exists, otherwise from the order's
// recorded charge.
type CreateRefundInput struct {
	Metadata             map[string]any
	OrderID              string
	CustomerID           string
	SupervisorID         string
	Reason               string
	CustomerRefundAmount decimal.Decimal
	BaseRefundAmount     decimal.Decimal
}

// RefundResult reports the refund entry and whether this call created it.
type RefundResult struct {
	Customer   *domain.LedgerEntry
	Supervisor *domain.LedgerEntry
	Created    bool
}

// CreateRefundTransaction writes the refund pair for an order, exactly once.
func (uc *RefundUseCase) CreateRefundTransaction(ctx context.Context, input CreateRefundInput) (*RefundResult, error) {
	if input.OrderID == "" {
		return nil, domain.ErrOrderNotFound
	}

	// Advisory lock to keep concurrent requests from racing through the
	// whole flow; the in-transaction re-check and the storage unique index
	// stay authoritative.
	lockKey := "refund:order:" + input.OrderID
	locked := uc.acquireLock(ctx, lockKey)
	if locked {
		defer func() {
			if err := uc.locker.Release(ctx, lockKey); err != nil {
				uc.logger.Warn().Err(err).Str("order_id", input.OrderID).Msg("failed to release refund lock")
			}
		}()
	}

	// Idempotence check: an existing refund is a success, not an error.
	existing, err := uc.entryRepo.FindRefund(ctx, input.OrderID, input.CustomerID)
	if err != nil {
		uc.recordFailure("lookup")
		return nil, fmt.Errorf("%w: %w", domain.ErrRefundCreationFailed, err)
	}
	if existing != nil {
		uc.recordDuplicate()
		return &RefundResult{Customer: existing, Created: false}, nil
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	customerAmount, baseAmount, err := uc.resolveAmounts(ctx, input, order)
	if err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = domain.OrderStatusRefunded.RefundReason()
	}

	// Annotate a copy: the caller's map stays untouched.
	metadata := make(map[string]any, len(input.Metadata)+3)
	for k, v := range input.Metadata {
		metadata[k] = v
	}
	metadata["reason"] = reason
	metadata["order_id"] = input.OrderID
	metadata["refunded_at"] = time.Now().UTC().Format(time.RFC3339)

	pairInput := CreateDualTransactionInput{
		CustomerID:      input.CustomerID,
		SupervisorID:    input.SupervisorID,
		OrderID:         &order.ID,
		OrderNumber:     order.OrderNumber,
		OrderAccount:    order.OrderAccount,
		CompanyName:     order.CompanyName,
		Description:     reason,
		TransactionType: domain.TransactionTypeRefund,
		CustomerAmount:  customerAmount,
		BaseAmount:      baseAmount,
		Metadata:        metadata,
	}

	pair, err := uc.writeRefundPair(ctx, pairInput)
	if err != nil {
		// A concurrent request won the race; surface its entry as success.
		if errors.Is(err, domain.ErrDuplicateRefund) {
			existing, findErr := uc.entryRepo.FindRefund(ctx, input.OrderID, input.CustomerID)
			if findErr != nil || existing == nil {
				uc.recordFailure("write")
				return nil, fmt.Errorf("%w: %w", domain.ErrRefundCreationFailed, err)
			}
			uc.recordDuplicate()
			return &RefundResult{Customer: existing, Created: false}, nil
		}
		uc.recordFailure("write")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RefundsCreated.Inc()
	}

	return &RefundResult{Customer: pair.Customer, Supervisor: pair.Supervisor, Created: true}, nil
}

func (uc *RefundUseCase) recordDuplicate() {
	if uc.metrics != nil {
		uc.metrics.DuplicateRefunds.Inc()
	}
}

func (uc *RefundUseCase) recordFailure(source string) {
	if uc.metrics != nil {
		uc.metrics.RefundFailures.WithLabelValues(source).Inc()
	}
}

func (uc *RefundUseCase) writeRefundPair(ctx context.Context, input CreateDualTransactionInput) (*DualTransaction, error) {
	if err := domain.ValidateMagnitude(input.CustomerAmount); err != nil {
		return nil, err
	}

	if err := domain.ValidateMagnitude(input.BaseAmount); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.CustomerID); err != nil {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrUserNotFound, input.CustomerID)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.SupervisorID); err != nil {
		return nil, fmt.Errorf("%w: supervisor %s", domain.ErrUserNotFound, input.SupervisorID)
	}

	// Re-verify idempotence inside the transaction: a read-then-write check
	// outside it is not safe against a concurrent duplicate call.
	guard := func(ctx context.Context, tx Transaction) error {
		existing, err := uc.entryRepo.FindRefundTx(ctx, tx, *input.OrderID, input.CustomerID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateRefund
		}
		return nil
	}

	var pair *DualTransaction

	start := time.Now()

	err := uc.txUC.retrier.Retry(ctx, func() error {
		var err error
		pair, err = uc.txUC.writePair(ctx, input, guard)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.txUC.recordPair(domain.TransactionTypeRefund, start, input.CustomerAmount)

	return pair, nil
}

// resolveAmounts prefers explicit amounts, then the original debit entry,
// then the order's recorded charge with the customer's ratio.
func (uc *RefundUseCase) resolveAmounts(ctx context.Context, input CreateRefundInput, order *domain.Order) (decimal.Decimal, decimal.Decimal, error) {
	customerAmount := input.CustomerRefundAmount.Abs()
	baseAmount := input.BaseRefundAmount.Abs()

	if customerAmount.IsZero() || baseAmount.IsZero() {
		debit, err := uc.entryRepo.FindDebit(ctx, input.OrderID, input.CustomerID)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %w", domain.ErrRefundCreationFailed, err)
		}

		if debit != nil {
			if customerAmount.IsZero() {
				customerAmount = debit.Amount.Abs()
			}
			if baseAmount.IsZero() {
				baseAmount = debit.BaseAmount.Abs()
			}
		}
	}

	// The original debit can be missing (non-order adjustments, historical
	// imports); the order's recorded charge is the last source of truth.
	if customerAmount.IsZero() {
		customerAmount = order.OrderAmount.Abs()
	}

	if baseAmount.IsZero() {
		if order.BaseAmount.Sign() > 0 {
			baseAmount = order.BaseAmount
		} else {
			ratio := domain.DefaultPriceRatio
			if user, err := uc.userRepo.GetByID(ctx, input.CustomerID); err == nil {
				ratio = user.EffectiveRatio()
			}
			baseAmount = domain.BasePrice(customerAmount, ratio)
		}
	}

	return customerAmount, baseAmount, nil
}

func (uc *RefundUseCase) acquireLock(ctx context.Context, key string) bool {
	for attempt := 0; attempt < RefundLockAttempts; attempt++ {
		ok, err := uc.locker.Acquire(ctx, key, RefundLockTTL)
		if err != nil {
			uc.logger.Warn().Err(err).Str("key", key).Msg("refund lock unavailable, proceeding without it")
			return false
		}
		if ok {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(RefundLockRetryInterval):
		}
	}

	return false
}
