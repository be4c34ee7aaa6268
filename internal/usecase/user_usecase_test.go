package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
	"github.com/freightpoint/ledger/internal/usecase/mocks"
)

func TestUserUseCase_GetPriceRatio(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	cache := mocks.NewMockCache()

	userRepo.Create(context.Background(), &domain.User{
		ID:         "cust-1",
		Role:       domain.RoleCustomer,
		PriceRatio: decimal.RequireFromString("2.5"),
	})
	userRepo.Create(context.Background(), &domain.User{
		ID:   "cust-2",
		Role: domain.RoleCustomer,
	})

	uc := usecase.NewUserUseCase(userRepo, cache)

	t.Run("configured ratio", func(t *testing.T) {
		ratio, err := uc.GetPriceRatio(context.Background(), "cust-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ratio.Equal(decimal.RequireFromString("2.5")) {
			t.Errorf("ratio = %s, want 2.5", ratio)
		}
	})

	t.Run("missing ratio falls back to default", func(t *testing.T) {
		ratio, err := uc.GetPriceRatio(context.Background(), "cust-2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ratio.Equal(domain.DefaultPriceRatio) {
			t.Errorf("ratio = %s, want default %s", ratio, domain.DefaultPriceRatio)
		}
	})

	t.Run("second lookup served from cache", func(t *testing.T) {
		lookups := 0
		userRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
			lookups++
			return &domain.User{ID: id, PriceRatio: decimal.RequireFromString("3")}, nil
		}
		defer func() { userRepo.GetByIDFunc = nil }()

		if _, err := uc.GetPriceRatio(context.Background(), "cust-3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.GetPriceRatio(context.Background(), "cust-3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if lookups != 1 {
			t.Errorf("expected one repository lookup, got %d", lookups)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := uc.GetPriceRatio(context.Background(), "ghost")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
