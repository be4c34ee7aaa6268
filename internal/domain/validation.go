package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge   = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall   = errors.New("amount below minimum allowed")
	ErrMetadataTooLarge = errors.New("metadata size exceeds limit")
)

// Validation constants
const (
	MaxMetadataSize      = 10240        // 10KB
	MaxTransactionAmount = "1000000000" // 1 billion
	MinTransactionAmount = "0.01"
)

// ValidateMagnitude validates a positive transaction magnitude before any
// sign convention is applied.
func ValidateMagnitude(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinTransactionAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinTransactionAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransactionAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxTransactionAmount)
	}

	return nil
}

// ValidateMetadata validates metadata size. Metadata is an audit trail
// annotation, never control flow, so only its size is constrained.
func ValidateMetadata(metadata map[string]any) error {
	if metadata == nil {
		return nil
	}

	// Estimate size (rough approximation)
	size := 0
	for k, v := range metadata {
		size += len(k)
		size += len(fmt.Sprintf("%v", v))
	}

	if size > MaxMetadataSize {
		return fmt.Errorf("%w: metadata size %d bytes exceeds limit of %d bytes", ErrMetadataTooLarge, size, MaxMetadataSize)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
