package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/freightpoint/ledger/internal/usecase"
	"github.com/freightpoint/ledger/internal/usecase/mocks"
)

func TestLedgerUseCase_Drift(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().Drift(gomock.Any(), 100).Return([]*usecase.OrderDrift{
		{
			OrderID:         "ord-1",
			CustomerTotal:   decimal.RequireFromString("-80.00"),
			SupervisorTotal: decimal.RequireFromString("-80.00"),
			Drift:           decimal.Zero,
		},
		{
			OrderID:         "ord-2",
			CustomerTotal:   decimal.RequireFromString("-323.67"),
			SupervisorTotal: decimal.Zero,
			Drift:           decimal.RequireFromString("-323.67"),
		},
	}, nil)

	uc := usecase.NewLedgerUseCase(ledgerRepo, nil)

	report, err := uc.Drift(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, report.Orders, 2)

	assert.True(t, report.Orders[1].Drift.Equal(decimal.RequireFromString("-323.67")),
		"drift = %s, want -323.67", report.Orders[1].Drift)
	assert.False(t, report.CheckedAt.IsZero(), "report must carry its check time")
}

func TestLedgerUseCase_Drift_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repoErr := errors.New("connection reset")

	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	ledgerRepo.EXPECT().Drift(gomock.Any(), 25).Return(nil, repoErr)

	uc := usecase.NewLedgerUseCase(ledgerRepo, nil)

	_, err := uc.Drift(context.Background(), 25)
	require.ErrorIs(t, err, repoErr)
}
