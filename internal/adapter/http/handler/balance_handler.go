package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
	"github.com/freightpoint/ledger/internal/usecase"
)

// BalanceHandler handles balance and top-up HTTP requests.
type BalanceHandler struct {
	balanceUC    *usecase.BalanceUseCase
	txUC         *usecase.TransactionUseCase
	supervisorID string
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase, txUC *usecase.TransactionUseCase, supervisorID string) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC, txUC: txUC, supervisorID: supervisorID}
}

// GetBalance returns a user's current balance.
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// ListTransactions lists a user's ledger entries, newest first.
func (h *BalanceHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.txUC.ListUserTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(entries))
}

// TopUp credits a customer's balance.
func (h *BalanceHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req dto.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	pair, err := h.balanceUC.TopUp(r.Context(), req.ToUseCaseInput(h.supervisorID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create top-up", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.DualTransactionFromDomain(pair))
}
