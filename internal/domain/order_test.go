package domain

import "testing"

func TestDecideRefund(t *testing.T) {
	tests := []struct {
		name         string
		oldStatus    OrderStatus
		newStatus    OrderStatus
		shouldRefund bool
		reason       string
	}{
		{
			name:         "active to active never fires",
			oldStatus:    OrderStatusConfirmed,
			newStatus:    OrderStatusInTransit,
			shouldRefund: false,
		},
		{
			name:         "pending review to rejected fires",
			oldStatus:    OrderStatusPendingReview,
			newStatus:    OrderStatusRejected,
			shouldRefund: true,
			reason:       "Order rejected",
		},
		{
			name:         "confirmed to cancelled fires",
			oldStatus:    OrderStatusConfirmed,
			newStatus:    OrderStatusCancelled,
			shouldRefund: true,
			reason:       "Order cancelled",
		},
		{
			name:         "in transit to failed fires",
			oldStatus:    OrderStatusInTransit,
			newStatus:    OrderStatusFailed,
			shouldRefund: true,
			reason:       "Order failed",
		},
		{
			name:         "delivered to refunded fires with default reason",
			oldStatus:    OrderStatusDelivered,
			newStatus:    OrderStatusRefunded,
			shouldRefund: true,
			reason:       "Order refunded",
		},
		{
			name:         "rejected to refunded does not re-fire",
			oldStatus:    OrderStatusRejected,
			newStatus:    OrderStatusRefunded,
			shouldRefund: false,
		},
		{
			name:         "cancelled to cancelled does not re-fire",
			oldStatus:    OrderStatusCancelled,
			newStatus:    OrderStatusCancelled,
			shouldRefund: false,
		},
		{
			name:         "refundable back to active does not fire",
			oldStatus:    OrderStatusRejected,
			newStatus:    OrderStatusConfirmed,
			shouldRefund: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := DecideRefund(tt.oldStatus, tt.newStatus)

			if decision.ShouldRefund != tt.shouldRefund {
				t.Errorf("DecideRefund(%s, %s).ShouldRefund = %v, want %v",
					tt.oldStatus, tt.newStatus, decision.ShouldRefund, tt.shouldRefund)
			}

			if decision.Reason != tt.reason {
				t.Errorf("DecideRefund(%s, %s).Reason = %q, want %q",
					tt.oldStatus, tt.newStatus, decision.Reason, tt.reason)
			}
		})
	}
}

func TestOrderStatus_RefundReason(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   string
	}{
		{OrderStatusCancelled, "Order cancelled"},
		{OrderStatusRejected, "Order rejected"},
		{OrderStatusFailed, "Order failed"},
		{OrderStatusRefunded, "Order refunded"},
		{OrderStatus("something_else"), "Order refunded"},
	}

	for _, tt := range tests {
		if got := tt.status.RefundReason(); got != tt.want {
			t.Errorf("RefundReason(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
