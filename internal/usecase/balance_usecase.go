package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
)

// BalanceUseCase serves the portal's balance page and the admin top-up flow.
type BalanceUseCase struct {
	txUC        *TransactionUseCase
	balanceRepo BalanceRepository
	userRepo    UserRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(txUC *TransactionUseCase, balanceRepo BalanceRepository, userRepo UserRepository) *BalanceUseCase {
	return &BalanceUseCase{
		txUC:        txUC,
		balanceRepo: balanceRepo,
		userRepo:    userRepo,
	}
}

// GetBalance returns a user's current balance.
func (uc *BalanceUseCase) GetBalance(ctx context.Context, userID string) (*domain.UserBalance, error) {
	return uc.balanceRepo.GetByUserID(ctx, userID)
}

// TopUpInput is an admin-approved balance top-up.
type TopUpInput struct {
	CustomerID   string
	SupervisorID string
	Description  string
	Amount       decimal.Decimal
}

// TopUp credits a customer's balance through the dual-transaction writer so
// the house ledger tracks the base-cost side of the credit as well.
func (uc *BalanceUseCase) TopUp(ctx context.Context, input TopUpInput) (*DualTransaction, error) {
	customer, err := uc.userRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	description := input.Description
	if description == "" {
		description = "Balance top-up"
	}

	return uc.txUC.CreateDualTransaction(ctx, CreateDualTransactionInput{
		CustomerID:      input.CustomerID,
		SupervisorID:    input.SupervisorID,
		Description:     description,
		TransactionType: domain.TransactionTypeCredit,
		CustomerAmount:  input.Amount,
		BaseAmount:      domain.BasePrice(input.Amount, customer.EffectiveRatio()),
		Metadata: map[string]any{
			"source": "topup",
		},
	})
}
