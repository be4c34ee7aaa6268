package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

func TestTransactionFromDomain(t *testing.T) {
	now := time.Now()
	orderID := "ord-1"
	entry := &domain.LedgerEntry{
		TransactionID:           "ORD-FP2024001-01J5",
		UserID:                  "cust-1",
		OrderID:                 &orderID,
		OrderNumber:             "FP2024001",
		CompanyName:             "Acme Freight",
		Description:             "charge",
		TransactionType:         domain.TransactionTypeDebit,
		Status:                  domain.TransactionStatusCompleted,
		Amount:                  decimal.RequireFromString("-120.00"),
		BaseAmount:              decimal.RequireFromString("-80.00"),
		PreviousBalance:         decimal.NewFromInt(1000),
		CurrentBalance:          decimal.NewFromInt(880),
		IsSupervisorTransaction: false,
		CreatedAt:               now,
	}

	resp := TransactionFromDomain(entry)
	if resp.TransactionID != entry.TransactionID || resp.TransactionType != "debit" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Amount.Equal(entry.Amount) || !resp.CurrentBalance.Equal(entry.CurrentBalance) {
		t.Fatalf("amounts did not carry over: %+v", resp)
	}

	list := TransactionsFromDomain([]*domain.LedgerEntry{entry})
	if len(list) != 1 || list[0].TransactionID != entry.TransactionID {
		t.Fatalf("TransactionsFromDomain returned %+v", list)
	}
}

func TestRefundFromResult_NilSupervisor(t *testing.T) {
	// An idempotent replay returns only the existing customer entry.
	result := &usecase.RefundResult{
		Customer: &domain.LedgerEntry{TransactionID: "REF-1"},
		Created:  false,
	}

	resp := RefundFromResult(result)
	if resp.Supervisor != nil {
		t.Fatalf("expected nil supervisor, got %+v", resp.Supervisor)
	}
	if resp.Created {
		t.Fatal("expected created=false")
	}
}

func TestStatusChangeFromResult(t *testing.T) {
	result := &usecase.StatusChangeResult{
		Decision:      domain.RefundDecision{ShouldRefund: true, Reason: "Order cancelled"},
		RefundCreated: true,
	}

	resp := StatusChangeFromResult(result)
	if !resp.ShouldRefund || !resp.RefundCreated || resp.Reason != "Order cancelled" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDriftReportFromDomain(t *testing.T) {
	report := &usecase.DriftReport{
		CheckedAt: time.Now(),
		Orders: []*usecase.OrderDrift{
			{
				OrderID:         "ord-1",
				CustomerTotal:   decimal.RequireFromString("-80.00"),
				SupervisorTotal: decimal.RequireFromString("-60.00"),
				Drift:           decimal.RequireFromString("-20.00"),
			},
		},
	}

	resp := DriftReportFromDomain(report)
	if len(resp.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resp.Orders))
	}
	if !resp.Orders[0].Drift.Equal(decimal.RequireFromString("-20.00")) {
		t.Fatalf("drift = %s, want -20.00", resp.Orders[0].Drift)
	}
}
