package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
	"github.com/freightpoint/ledger/internal/usecase"
)

// OrderHandler handles order-scoped ledger HTTP requests: the status webhook
// from the order-management collaborator, manual refunds, and the per-order
// transaction listing.
type OrderHandler struct {
	reconcilerUC *usecase.ReconcilerUseCase
	refundUC     *usecase.RefundUseCase
	txUC         *usecase.TransactionUseCase
	supervisorID string
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(
	reconcilerUC *usecase.ReconcilerUseCase,
	refundUC *usecase.RefundUseCase,
	txUC *usecase.TransactionUseCase,
	supervisorID string,
) *OrderHandler {
	return &OrderHandler{
		reconcilerUC: reconcilerUC,
		refundUC:     refundUC,
		txUC:         txUC,
		supervisorID: supervisorID,
	}
}

// StatusChanged handles the order-status webhook. A failed refund write is
// reported in the response body, never as a webhook failure.
func (h *OrderHandler) StatusChanged(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.reconcilerUC.HandleStatusChange(r.Context(), req.ToUseCaseInput(orderID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to handle status change", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.StatusChangeFromResult(result))
}

// Refund creates a refund pair for an order. Repeating the request returns
// the existing refund.
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.CreateRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.refundUC.CreateRefundTransaction(r.Context(), req.ToUseCaseInput(orderID, h.supervisorID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create refund", err.Error())

		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	writeJSON(w, status, dto.RefundFromResult(result))
}

// ListTransactions lists every ledger entry written for an order.
func (h *OrderHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	entries, err := h.txUC.GetOrderTransactions(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(entries))
}
