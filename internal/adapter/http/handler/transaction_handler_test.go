package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
)

func TestTransactionHandler_Create_Success(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	orderID := "ord-1"
	body, _ := json.Marshal(dto.CreateTransactionRequest{
		CustomerID:      "cust-1",
		OrderID:         &orderID,
		OrderNumber:     "FP2024001",
		Description:     "LTL shipment charge",
		TransactionType: "debit",
		Amount:          decimal.RequireFromString("120.00"),
		BaseAmount:      decimal.RequireFromString("80.00"),
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.DualTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !resp.Customer.Amount.Equal(decimal.RequireFromString("-120.00")) {
		t.Errorf("customer amount = %s, want -120.00", resp.Customer.Amount)
	}
	if !resp.Supervisor.Amount.Equal(decimal.RequireFromString("-80.00")) {
		t.Errorf("supervisor amount = %s, want -80.00", resp.Supervisor.Amount)
	}
	if !resp.Supervisor.IsSupervisorTransaction {
		t.Error("supervisor entry not flagged")
	}
	// The house account is fixed by configuration, never by the caller.
	if resp.Supervisor.UserID != testSupervisorID {
		t.Errorf("supervisor user = %s, want %s", resp.Supervisor.UserID, testSupervisorID)
	}
}

func TestTransactionHandler_Create_InvalidBody(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := len(f.entryRepo.Entries()); got != 0 {
		t.Fatalf("expected no entries written, got %d", got)
	}
}

func TestTransactionHandler_Create_MissingFields(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		CustomerID:      "cust-1",
		TransactionType: "debit",
		Amount:          decimal.NewFromInt(10),
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing description, got %d", rec.Code)
	}
}

func TestTransactionHandler_Create_RefundTypeRejected(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		CustomerID:      "cust-1",
		Description:     "sneaky refund",
		TransactionType: "refund",
		Amount:          decimal.NewFromInt(10),
		BaseAmount:      decimal.NewFromInt(5),
	})

	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for refund type on public writer, got %d", rec.Code)
	}
}

func TestTransactionHandler_Get(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	body, _ := json.Marshal(dto.CreateTransactionRequest{
		CustomerID:      "cust-1",
		Description:     "charge",
		TransactionType: "debit",
		Amount:          decimal.NewFromInt(100),
		BaseAmount:      decimal.NewFromInt(50),
	})
	req := httptest.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Create(rec, req)

	entries := f.entryRepo.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions/"+entries[0].TransactionID, nil)
	req = setChiURLParam(req, "id", entries[0].TransactionID)
	rec = httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TransactionID != entries[0].TransactionID {
		t.Fatalf("expected %s, got %s", entries[0].TransactionID, resp.TransactionID)
	}
}

func TestTransactionHandler_Get_NotFound(t *testing.T) {
	f := newHandlerFixture()
	handler := NewTransactionHandler(f.txUC, testSupervisorID)

	req := httptest.NewRequest(http.MethodGet, "/transactions/ghost", nil)
	req = setChiURLParam(req, "id", "ghost")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
