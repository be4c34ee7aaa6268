package domain

import "errors"

var (
	// Ledger entry errors
	ErrInvalidAmount          = errors.New("amount must be a non-zero value")
	ErrSignMismatch           = errors.New("amount and base amount must share the transaction type's sign")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidTransactionID   = errors.New("transaction ID must not be empty")
	ErrTransactionNotFound    = errors.New("transaction not found")

	// Dual-write errors
	ErrTransactionCreationFailed = errors.New("dual transaction creation failed")
	ErrRefundCreationFailed      = errors.New("refund transaction creation failed")
	ErrDuplicateRefund           = errors.New("refund already exists for this order and user")

	// Balance errors
	ErrBalanceNotFound     = errors.New("user balance not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPriceRatio   = errors.New("price ratio must be positive")

	// Collaborator lookups
	ErrUserNotFound  = errors.New("user not found")
	ErrOrderNotFound = errors.New("order not found")
)
