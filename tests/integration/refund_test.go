package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/adapter/repository/postgres"
	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
	"github.com/freightpoint/ledger/tests/testutil"
)

// alwaysAcquireLocker lets every caller through so the storage unique index
// carries the duplicate guard alone.
type alwaysAcquireLocker struct{}

func (alwaysAcquireLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (alwaysAcquireLocker) Release(ctx context.Context, key string) error {
	return nil
}

func newRefundUseCase(testDB *testutil.TestDB, txUC *usecase.TransactionUseCase, locker usecase.Locker) *usecase.RefundUseCase {
	return usecase.NewRefundUseCase(
		txUC,
		postgres.NewEntryRepository(testDB.Pool),
		postgres.NewOrderRepository(testDB.Pool),
		postgres.NewUserRepository(testDB.Pool),
		locker,
		zerolog.Nop(),
		nil,
	)
}

func TestRefundIdempotence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	customer := testDB.CreateTestUser(ctx, domain.RoleCustomer, decimal.Zero, decimal.NewFromInt(1000), false)
	supervisor := testDB.CreateTestUser(ctx, domain.RoleSupervisor, decimal.Zero, decimal.Zero, true)
	order := testDB.CreateTestOrder(ctx, customer.ID, domain.OrderStatusCancelled, decimal.RequireFromString("485.50"), decimal.RequireFromString("300.00"))

	txUC := newTransactionUseCase(testDB)
	refundUC := newRefundUseCase(testDB, txUC, alwaysAcquireLocker{})

	input := usecase.CreateRefundInput{
		OrderID:      order.ID,
		CustomerID:   customer.ID,
		SupervisorID: supervisor.ID,
		Reason:       "Order cancelled",
	}

	first, err := refundUC.CreateRefundTransaction(ctx, input)
	if err != nil {
		t.Fatalf("first refund failed: %v", err)
	}
	if !first.Created {
		t.Fatal("expected first refund to be created")
	}
	if !first.Customer.Amount.Equal(decimal.RequireFromString("485.50")) {
		t.Errorf("refund amount = %s, want 485.50", first.Customer.Amount)
	}

	second, err := refundUC.CreateRefundTransaction(ctx, input)
	if err != nil {
		t.Fatalf("second refund failed: %v", err)
	}
	if second.Created {
		t.Fatal("expected second refund to return the existing entry")
	}
	if second.Customer.TransactionID != first.Customer.TransactionID {
		t.Errorf("expected existing entry back, got %s vs %s", second.Customer.TransactionID, first.Customer.TransactionID)
	}

	if got := testDB.CountEntries(ctx, order.ID, domain.TransactionTypeRefund, false); got != 1 {
		t.Errorf("customer refund entries = %d, want 1", got)
	}
	if got := testDB.Balance(ctx, customer.ID); !got.Equal(decimal.RequireFromString("1485.50")) {
		t.Errorf("customer balance = %s, want 1485.50", got)
	}
}

func TestConcurrentRefunds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	customer := testDB.CreateTestUser(ctx, domain.RoleCustomer, decimal.Zero, decimal.NewFromInt(1000), false)
	supervisor := testDB.CreateTestUser(ctx, domain.RoleSupervisor, decimal.Zero, decimal.Zero, true)
	order := testDB.CreateTestOrder(ctx, customer.ID, domain.OrderStatusCancelled, decimal.NewFromInt(120), decimal.NewFromInt(80))

	txUC := newTransactionUseCase(testDB)
	// The advisory lock is deliberately bypassed so the partial unique index
	// carries the race alone.
	refundUC := newRefundUseCase(testDB, txUC, alwaysAcquireLocker{})

	const workers = 10

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		failed  atomic.Int32
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()

			result, err := refundUC.CreateRefundTransaction(ctx, usecase.CreateRefundInput{
				OrderID:      order.ID,
				CustomerID:   customer.ID,
				SupervisorID: supervisor.ID,
			})
			if err != nil {
				failed.Add(1)
				return
			}
			if result.Created {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	if failed.Load() != 0 {
		t.Errorf("expected every request to resolve, %d failed", failed.Load())
	}
	if created.Load() != 1 {
		t.Errorf("expected exactly 1 creation, got %d", created.Load())
	}

	if got := testDB.CountEntries(ctx, order.ID, domain.TransactionTypeRefund, false); got != 1 {
		t.Errorf("customer refund entries = %d, want 1", got)
	}
	if got := testDB.Balance(ctx, customer.ID); !got.Equal(decimal.NewFromInt(1120)) {
		t.Errorf("customer balance = %s, want 1120 (exactly one refund applied)", got)
	}
}
