package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserBalance is the running balance backing one side of the dual ledger.
// Customer balances hold customer-currency funds; the supervisor balance
// tracks the house's base-cost position and is allowed to go negative.
type UserBalance struct {
	UserID        string
	Balance       decimal.Decimal
	Version       int64
	AllowNegative bool
	UpdatedAt     time.Time
}

// ValidateDebit checks if the balance can absorb a debit of magnitude amount.
func (b *UserBalance) ValidateDebit(amount decimal.Decimal) error {
	newBalance := b.Balance.Sub(amount.Abs())
	if !b.AllowNegative && newBalance.IsNegative() {
		return ErrInsufficientBalance
	}
	return nil
}

// Apply returns the new balance after applying a signed entry amount.
func (b *UserBalance) Apply(signedAmount decimal.Decimal) decimal.Decimal {
	return b.Balance.Add(signedAmount)
}
