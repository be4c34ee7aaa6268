package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle status of a shipping order. Order status is
// owned and mutated by the order-management collaborator; this service only
// reads it and reacts to reported transitions.
type OrderStatus string

const (
	OrderStatusDraft         OrderStatus = "draft"
	OrderStatusPendingReview OrderStatus = "pending_review"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusInTransit     OrderStatus = "in_transit"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"
	OrderStatusRejected      OrderStatus = "rejected"
	OrderStatusFailed        OrderStatus = "failed"
	OrderStatusRefunded      OrderStatus = "refunded"
)

// refundableStates are the terminal statuses that, when newly entered,
// trigger refund generation.
var refundableStates = map[OrderStatus]bool{
	OrderStatusCancelled: true,
	OrderStatusRejected:  true,
	OrderStatusFailed:    true,
	OrderStatusRefunded:  true,
}

// IsRefundable reports whether the status is a refundable terminal state.
func (s OrderStatus) IsRefundable() bool {
	return refundableStates[s]
}

// RefundReason returns the canonical human-readable reason recorded on
// refund entries generated for this status.
func (s OrderStatus) RefundReason() string {
	switch s {
	case OrderStatusCancelled:
		return "Order cancelled"
	case OrderStatusRejected:
		return "Order rejected"
	case OrderStatusFailed:
		return "Order failed"
	default:
		return "Order refunded"
	}
}

// RefundDecision is the outcome of evaluating a status transition.
type RefundDecision struct {
	Reason       string
	ShouldRefund bool
}

// DecideRefund evaluates an observed status transition. A refund fires only
// when the order moves from a non-refundable state into a refundable one; a
// transition between two refundable states must not re-trigger refund
// creation (idempotence in the refund writer is the backstop, not the
// primary guard).
func DecideRefund(oldStatus, newStatus OrderStatus) RefundDecision {
	if oldStatus.IsRefundable() || !newStatus.IsRefundable() {
		return RefundDecision{}
	}

	return RefundDecision{
		ShouldRefund: true,
		Reason:       newStatus.RefundReason(),
	}
}

// Order is the order-management collaborator's record as this service sees
// it: enough to snapshot display fields and derive refund amounts.
type Order struct {
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ID           string
	OrderNumber  string
	OrderAccount string
	CompanyName  string
	UserID       string
	Status       OrderStatus
	OrderAmount  decimal.Decimal
	BaseAmount   decimal.Decimal
}
