package handler

import (
	"net/http"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
	"github.com/freightpoint/ledger/internal/usecase"
)

// LedgerHandler handles ledger-wide HTTP requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Drift returns the dual-ledger drift report.
func (h *LedgerHandler) Drift(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 100)

	report, err := h.ledgerUC.Drift(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build drift report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DriftReportFromDomain(report))
}
