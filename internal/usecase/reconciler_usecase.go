package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// ReconcilerUseCase reacts to order status transitions reported by the
// order-management collaborator and triggers refund generation for
// qualifying transitions. It never mutates order status.
type ReconcilerUseCase struct {
	refundUC     *RefundUseCase
	orderRepo    OrderRepository
	userRepo     UserRepository
	supervisorID string
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewReconcilerUseCase creates a new ReconcilerUseCase. supervisorID is the
// house account every base-cost entry is recorded against. metrics may be nil.
func NewReconcilerUseCase(
	refundUC *RefundUseCase,
	orderRepo OrderRepository,
	userRepo UserRepository,
	supervisorID string,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		refundUC:     refundUC,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		supervisorID: supervisorID,
		logger:       logger,
		metrics:      metrics,
	}
}

// StatusChangeInput is one observed order status transition.
type StatusChangeInput struct {
	OrderID   string
	OldStatus domain.OrderStatus
	NewStatus domain.OrderStatus
}

// StatusChangeResult reports what the reconciler did with a transition.
// RefundError carries a refund-write failure as data: a ledger hiccup must
// never fail the order-status mutation it was triggered by.
type StatusChangeResult struct {
	Decision      domain.RefundDecision
	RefundCreated bool
	RefundError   string
}

// HandleStatusChange evaluates a reported transition and fires refund
// creation when the order newly enters a refundable terminal state.
func (uc *ReconcilerUseCase) HandleStatusChange(ctx context.Context, input StatusChangeInput) (*StatusChangeResult, error) {
	if uc.metrics != nil {
		uc.metrics.StatusChanges.WithLabelValues(string(input.NewStatus)).Inc()
	}

	decision := domain.DecideRefund(input.OldStatus, input.NewStatus)
	result := &StatusChangeResult{Decision: decision}

	if !decision.ShouldRefund {
		return result, nil
	}

	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	customerAmount := order.OrderAmount
	baseAmount := order.BaseAmount
	if baseAmount.Sign() <= 0 {
		baseAmount = domain.BasePrice(customerAmount, uc.customerRatio(ctx, order.UserID))
	}

	refund, err := uc.refundUC.CreateRefundTransaction(ctx, CreateRefundInput{
		OrderID:              order.ID,
		CustomerID:           order.UserID,
		SupervisorID:         uc.supervisorID,
		CustomerRefundAmount: customerAmount,
		BaseRefundAmount:     baseAmount,
		Reason:               decision.Reason,
		Metadata: map[string]any{
			"old_status": string(input.OldStatus),
			"new_status": string(input.NewStatus),
		},
	})
	if err != nil {
		// Intentional decoupling: the status transition stands even when the
		// ledger write fails. The drift report covers the resulting window.
		uc.logger.Error().
			Err(err).
			Str("order_id", input.OrderID).
			Str("old_status", string(input.OldStatus)).
			Str("new_status", string(input.NewStatus)).
			Msg("refund transaction creation failed")

		result.RefundError = err.Error()
		return result, nil
	}

	result.RefundCreated = refund.Created
	return result, nil
}

func (uc *ReconcilerUseCase) customerRatio(ctx context.Context, userID string) decimal.Decimal {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.DefaultPriceRatio
	}
	return user.EffectiveRatio()
}
