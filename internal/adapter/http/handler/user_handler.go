package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightpoint/ledger/internal/adapter/http/dto"
	"github.com/freightpoint/ledger/internal/usecase"
)

// UserHandler handles user lookup HTTP requests.
type UserHandler struct {
	userUC *usecase.UserUseCase
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUC *usecase.UserUseCase) *UserHandler {
	return &UserHandler{userUC: userUC}
}

// GetPriceRatio returns the effective price ratio for a customer. Falls back
// to the default ratio when the customer has none assigned.
func (h *UserHandler) GetPriceRatio(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	ratio, err := h.userUC.GetPriceRatio(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to resolve price ratio", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, &dto.PriceRatioResponse{
		UserID:     userID,
		PriceRatio: ratio,
	})
}
