package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
)

func newOrderHandler(f *handlerFixture) *OrderHandler {
	return NewOrderHandler(f.reconcilerUC, f.refundUC, f.txUC, testSupervisorID)
}

func postStatus(t *testing.T, handler *OrderHandler, orderID, oldStatus, newStatus string) (*httptest.ResponseRecorder, dto.StatusChangeResponse) {
	t.Helper()

	body, _ := json.Marshal(dto.OrderStatusRequest{OldStatus: oldStatus, NewStatus: newStatus})
	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID+"/status", bytes.NewReader(body))
	req = setChiURLParam(req, "id", orderID)
	rec := httptest.NewRecorder()

	handler.StatusChanged(rec, req)

	var resp dto.StatusChangeResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec, resp
}

func TestOrderHandler_StatusChanged_CreatesRefund(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	rec, resp := postStatus(t, handler, order.ID, "confirmed", "cancelled")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.ShouldRefund || !resp.RefundCreated {
		t.Fatalf("expected refund to fire, got %+v", resp)
	}

	// Refund credited the order amount back to the customer.
	balance, _ := f.balanceRepo.GetByUserID(context.Background(), "cust-1")
	if !balance.Balance.Equal(decimal.NewFromInt(1120)) {
		t.Fatalf("customer balance = %s, want 1120", balance.Balance)
	}
}

func TestOrderHandler_StatusChanged_NonRefundableTransition(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	rec, resp := postStatus(t, handler, order.ID, "confirmed", "in_transit")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.ShouldRefund || resp.RefundCreated {
		t.Fatalf("expected no refund, got %+v", resp)
	}
	if got := len(f.entryRepo.Entries()); got != 0 {
		t.Fatalf("expected no entries written, got %d", got)
	}
}

func TestOrderHandler_StatusChanged_AlreadyRefundable(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	// A transition between two refundable states must not re-trigger.
	rec, resp := postStatus(t, handler, order.ID, "cancelled", "refunded")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.ShouldRefund {
		t.Fatalf("expected no refund decision, got %+v", resp)
	}
}

func TestOrderHandler_StatusChanged_RepeatedWebhook(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	postStatus(t, handler, order.ID, "confirmed", "cancelled")
	rec, resp := postStatus(t, handler, order.ID, "confirmed", "cancelled")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.RefundCreated {
		t.Fatalf("second delivery must not create a new refund, got %+v", resp)
	}

	// Exactly one refund pair in the ledger.
	refunds := 0
	for _, e := range f.entryRepo.Entries() {
		if e.TransactionType == "refund" && !e.IsSupervisorTransaction {
			refunds++
		}
	}
	if refunds != 1 {
		t.Fatalf("expected exactly 1 customer refund entry, got %d", refunds)
	}
}

func TestOrderHandler_Refund_Idempotent(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	body, _ := json.Marshal(dto.CreateRefundRequest{
		CustomerID: "cust-1",
		Reason:     "Damaged cargo",
		Amount:     decimal.RequireFromString("485.50"),
		BaseAmount: decimal.RequireFromString("300.00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/orders/"+order.ID+"/refund", bytes.NewReader(body))
	req = setChiURLParam(req, "id", order.ID)
	rec := httptest.NewRecorder()

	handler.Refund(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first refund, got %d: %s", rec.Code, rec.Body.String())
	}

	var first dto.RefundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !first.Created {
		t.Fatal("expected created=true on first refund")
	}
	if !first.Customer.Amount.Equal(decimal.RequireFromString("485.50")) {
		t.Fatalf("refund amount = %s, want 485.50", first.Customer.Amount)
	}

	req = httptest.NewRequest(http.MethodPost, "/orders/"+order.ID+"/refund", bytes.NewReader(body))
	req = setChiURLParam(req, "id", order.ID)
	rec = httptest.NewRecorder()

	handler.Refund(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on repeated refund, got %d", rec.Code)
	}

	var second dto.RefundResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if second.Created {
		t.Fatal("expected created=false on repeated refund")
	}
	if second.Customer.TransactionID != first.Customer.TransactionID {
		t.Fatalf("expected the existing entry back, got %s vs %s", second.Customer.TransactionID, first.Customer.TransactionID)
	}
}

func TestOrderHandler_Refund_UnknownOrder(t *testing.T) {
	f := newHandlerFixture()
	handler := newOrderHandler(f)

	body, _ := json.Marshal(dto.CreateRefundRequest{CustomerID: "cust-1"})
	req := httptest.NewRequest(http.MethodPost, "/orders/ghost/refund", bytes.NewReader(body))
	req = setChiURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.Refund(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestOrderHandler_ListTransactions(t *testing.T) {
	f := newHandlerFixture()
	order := f.seedOrder()
	handler := newOrderHandler(f)

	postStatus(t, handler, order.ID, "confirmed", "cancelled")

	req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID+"/transactions", nil)
	req = setChiURLParam(req, "id", order.ID)
	rec := httptest.NewRecorder()

	handler.ListTransactions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []*dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected the refund pair, got %d entries", len(resp))
	}
}
