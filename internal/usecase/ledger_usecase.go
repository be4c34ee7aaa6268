package usecase

import (
	"context"
	"time"

	"github.com/freightpoint/ledger/internal/infrastructure/metrics"
)

// LedgerUseCase handles ledger-wide read operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	metrics    *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(ledgerRepo LedgerRepository, metrics *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, metrics: metrics}
}

// DriftReport lists orders whose customer-side and supervisor-side ledgers
// disagree. The refund write is intentionally decoupled from order-status
// mutation, so drift can exist; this report makes the window visible without
// attempting automatic repair.
type DriftReport struct {
	CheckedAt time.Time
	Orders    []*OrderDrift
}

// Drift builds the drift report.
func (uc *LedgerUseCase) Drift(ctx context.Context, limit int) (*DriftReport, error) {
	if limit <= 0 {
		limit = 100
	}

	orders, err := uc.ledgerRepo.Drift(ctx, limit)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DriftOrders.Set(float64(len(orders)))
	}

	return &DriftReport{
		CheckedAt: time.Now().UTC(),
		Orders:    orders,
	}, nil
}
