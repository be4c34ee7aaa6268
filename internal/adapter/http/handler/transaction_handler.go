package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
	"github.com/freightpoint/ledger/internal/usecase"
)

// TransactionHandler handles ledger transaction HTTP requests.
type TransactionHandler struct {
	txUC         *usecase.TransactionUseCase
	supervisorID string
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC *usecase.TransactionUseCase, supervisorID string) *TransactionHandler {
	return &TransactionHandler{txUC: txUC, supervisorID: supervisorID}
}

// Create writes a debit or credit pair.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	pair, err := h.txUC.CreateDualTransaction(r.Context(), req.ToUseCaseInput(h.supervisorID))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.DualTransactionFromDomain(pair))
}

// Get retrieves a single entry by transaction ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	entry, err := h.txUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(entry))
}
