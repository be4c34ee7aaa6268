package handler

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
	"github.com/freightpoint/ledger/internal/usecase/mocks"
)

const testSupervisorID = "sup-1"

// handlerFixture wires real use cases onto in-memory repositories so handlers
// exercise the full decode-validate-execute-encode path.
type handlerFixture struct {
	entryRepo   *mocks.MockEntryRepository
	balanceRepo *mocks.MockBalanceRepository
	userRepo    *mocks.MockUserRepository
	orderRepo   *mocks.MockOrderRepository

	txUC         *usecase.TransactionUseCase
	balanceUC    *usecase.BalanceUseCase
	refundUC     *usecase.RefundUseCase
	reconcilerUC *usecase.ReconcilerUseCase
}

func newHandlerFixture() *handlerFixture {
	entryRepo := mocks.NewMockEntryRepository()
	balanceRepo := mocks.NewMockBalanceRepository()
	userRepo := mocks.NewMockUserRepository()
	orderRepo := mocks.NewMockOrderRepository()

	userRepo.Create(context.Background(), &domain.User{
		ID:         "cust-1",
		Role:       domain.RoleCustomer,
		PriceRatio: decimal.RequireFromString("1.5"),
	})
	userRepo.Create(context.Background(), &domain.User{ID: testSupervisorID, Role: domain.RoleSupervisor})

	balanceRepo.Seed(&domain.UserBalance{UserID: "cust-1", Balance: decimal.NewFromInt(1000)})
	balanceRepo.Seed(&domain.UserBalance{UserID: testSupervisorID, Balance: decimal.Zero, AllowNegative: true})

	txUC := usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		entryRepo,
		balanceRepo,
		userRepo,
		mocks.NewMockIDGenerator(),
		mocks.NewMockRetrier(),
		nil,
	)

	refundUC := usecase.NewRefundUseCase(txUC, entryRepo, orderRepo, userRepo, mocks.NewMockLocker(), zerolog.Nop(), nil)

	return &handlerFixture{
		entryRepo:    entryRepo,
		balanceRepo:  balanceRepo,
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		txUC:         txUC,
		balanceUC:    usecase.NewBalanceUseCase(txUC, balanceRepo, userRepo),
		refundUC:     refundUC,
		reconcilerUC: usecase.NewReconcilerUseCase(refundUC, orderRepo, userRepo, testSupervisorID, zerolog.Nop(), nil),
	}
}

func (f *handlerFixture) seedOrder() *domain.Order {
	order := &domain.Order{
		ID:           "ord-9",
		OrderNumber:  "FP2024009",
		OrderAccount: "ACCT-77",
		CompanyName:  "Acme Freight",
		UserID:       "cust-1",
		Status:       domain.OrderStatusConfirmed,
		OrderAmount:  decimal.RequireFromString("120.00"),
		BaseAmount:   decimal.RequireFromString("80.00"),
	}
	f.orderRepo.Seed(order)
	return order
}
