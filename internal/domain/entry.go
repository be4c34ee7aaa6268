package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeDebit  TransactionType = "debit"
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeRefund TransactionType = "refund"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionTypeDebit:  true,
	TransactionTypeCredit: true,
	TransactionTypeRefund: true,
}

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// IsDebit reports whether entries of this type carry negative amounts.
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeDebit
}

// TransactionStatus is the lifecycle status of a ledger entry. Entries are
// write-once: this subsystem only ever produces completed entries.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction ID prefixes. The prefix tells an auditor the context of an
// entry without joining any other table.
const (
	TransactionPrefixOrder      = "ORD"
	TransactionPrefixSupervisor = "SUP"
	TransactionPrefixRefund     = "REF"
)

// LedgerEntry is one immutable financial record in the dual-ledger system.
// Display fields (OrderNumber, OrderAccount, CompanyName) are snapshotted at
// write time and never recomputed. Corrections are made by writing a new
// entry, never by updating an existing one.
type LedgerEntry struct {
	CreatedAt               time.Time
	Metadata                map[string]any
	OrderID                 *string
	TransactionID           string
	UserID                  string
	OrderNumber             string
	OrderAccount            string
	CompanyName             string
	Description             string
	TransactionType         TransactionType
	Status                  TransactionStatus
	Amount                  decimal.Decimal
	BaseAmount              decimal.Decimal
	PreviousBalance         decimal.Decimal
	CurrentBalance          decimal.Decimal
	IsSupervisorTransaction bool
}

// Validate checks structural validity of an entry before it is written.
// Amount and BaseAmount must be non-zero and share the same sign, and the
// sign must match the transaction type.
func (e *LedgerEntry) Validate() error {
	if e.TransactionID == "" {
		return ErrInvalidTransactionID
	}

	if e.UserID == "" {
		return ErrUserNotFound
	}

	if !e.TransactionType.IsValid() {
		return ErrInvalidTransactionType
	}

	if e.Amount.IsZero() || e.BaseAmount.IsZero() {
		return ErrInvalidAmount
	}

	if e.Amount.Sign() != e.BaseAmount.Sign() {
		return ErrSignMismatch
	}

	if e.TransactionType.IsDebit() && e.Amount.Sign() > 0 {
		return ErrSignMismatch
	}

	if !e.TransactionType.IsDebit() && e.Amount.Sign() < 0 {
		return ErrSignMismatch
	}

	return nil
}

// SignedAmount applies the sign convention of the transaction type to a
// positive magnitude: debits leave the balance, credits and refunds enter it.
func SignedAmount(magnitude decimal.Decimal, txType TransactionType) decimal.Decimal {
	abs := magnitude.Abs()
	if txType.IsDebit() {
		return abs.Neg()
	}
	return abs
}
