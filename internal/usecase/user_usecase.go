package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
)

// UserUseCase resolves acting users and their price ratios.
type UserUseCase struct {
	userRepo UserRepository
	cache    Cache
}

// NewUserUseCase creates a new UserUseCase. cache may be nil.
func NewUserUseCase(userRepo UserRepository, cache Cache) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		cache:    cache,
	}
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetPriceRatio resolves a customer's effective price ratio, caching the
// result. Quote flows hit this on every request, so a short TTL cache keeps
// the users table out of the hot path.
func (uc *UserUseCase) GetPriceRatio(ctx context.Context, userID string) (decimal.Decimal, error) {
	cacheKey := "price_ratio:" + userID

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil && cached != "" {
			if ratio, err := decimal.NewFromString(cached); err == nil {
				return ratio, nil
			}
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}

	ratio := user.EffectiveRatio()

	if uc.cache != nil {
		// Cache failures only cost the next lookup a database read.
		_ = uc.cache.Set(ctx, cacheKey, ratio.String(), PriceRatioCacheTTL)
	}

	return ratio, nil
}
