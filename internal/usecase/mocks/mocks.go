// Package mocks provides hand-rolled mock implementations of the usecase
// interfaces for unit tests. Each mock keeps simple in-memory state and
// exposes per-method override funcs for failure injection.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateTxFunc           func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByTransactionIDFunc func(ctx context.Context, transactionID string) (*domain.LedgerEntry, error)
	GetByOrderFunc         func(ctx context.Context, orderID string) ([]*domain.LedgerEntry, error)
	ListByUserFunc         func(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error)
	FindRefundFunc         func(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error)
	FindRefundTxFunc       func(ctx context.Context, tx usecase.Transaction, orderID, userID string) (*domain.LedgerEntry, error)
	FindDebitFunc          func(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	if m.GetByTransactionIDFunc != nil {
		return m.GetByTransactionIDFunc(ctx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.TransactionID == transactionID {
			return e, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockEntryRepository) GetByOrder(ctx context.Context, orderID string) ([]*domain.LedgerEntry, error) {
	if m.GetByOrderFunc != nil {
		return m.GetByOrderFunc(ctx, orderID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockEntryRepository) FindRefund(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error) {
	if m.FindRefundFunc != nil {
		return m.FindRefundFunc(ctx, orderID, userID)
	}
	return m.findEntry(orderID, userID, domain.TransactionTypeRefund), nil
}

func (m *MockEntryRepository) FindRefundTx(ctx context.Context, tx usecase.Transaction, orderID, userID string) (*domain.LedgerEntry, error) {
	if m.FindRefundTxFunc != nil {
		return m.FindRefundTxFunc(ctx, tx, orderID, userID)
	}
	return m.findEntry(orderID, userID, domain.TransactionTypeRefund), nil
}

func (m *MockEntryRepository) FindDebit(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error) {
	if m.FindDebitFunc != nil {
		return m.FindDebitFunc(ctx, orderID, userID)
	}
	return m.findEntry(orderID, userID, domain.TransactionTypeDebit), nil
}

func (m *MockEntryRepository) findEntry(orderID, userID string, txType domain.TransactionType) *domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.OrderID != nil && *e.OrderID == orderID && e.UserID == userID &&
			e.TransactionType == txType && !e.IsSupervisorTransaction {
			return e
		}
	}
	return nil
}

// Entries returns a snapshot of everything written so far.
func (m *MockEntryRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockBalanceRepository is a mock implementation of BalanceRepository.
type MockBalanceRepository struct {
	mu       sync.RWMutex
	balances map[string]*domain.UserBalance

	GetByUserIDFunc           func(ctx context.Context, userID string) (*domain.UserBalance, error)
	GetByUserIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.UserBalance, error)
	UpdateBalanceFunc         func(ctx context.Context, tx usecase.Transaction, userID string, balance decimal.Decimal, updatedAt time.Time) error
}

func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		balances: make(map[string]*domain.UserBalance),
	}
}

// Seed installs a balance for a user.
func (m *MockBalanceRepository) Seed(balance *domain.UserBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[balance.UserID] = balance
}

func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserBalance, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.balances[userID]; ok {
		return b, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) GetByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.UserBalance, error) {
	if m.GetByUserIDsForUpdateFunc != nil {
		return m.GetByUserIDsForUpdateFunc(ctx, tx, userIDs)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.UserBalance
	for _, id := range userIDs {
		if b, ok := m.balances[id]; ok {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *MockBalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, userID string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, userID, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.balances[userID]; ok {
		b.Balance = balance
		b.Version++
		b.UpdatedAt = updatedAt
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc  func(ctx context.Context, user *domain.User) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	GetByIDFunc func(ctx context.Context, id string) (*domain.Order, error)
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// Seed installs an order.
func (m *MockOrderRepository) Seed(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrOrderNotFound
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func(prefix, orderRef string) string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate(prefix, orderRef string) string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(prefix, orderRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	id := prefix
	if orderRef != "" {
		id += "-" + orderRef
	}
	return id + "-" + time.Now().UTC().Format("20060102150405") + "-" + string(rune('A'+m.counter%26))
}

// MockRetrier is a pass-through Retrier that runs the operation once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockLocker is an in-memory Locker.
type MockLocker struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireFunc func(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseFunc func(ctx context.Context, key string) error
}

func NewMockLocker() *MockLocker {
	return &MockLocker{locks: make(map[string]bool)}
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.AcquireFunc != nil {
		return m.AcquireFunc(ctx, key, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[key] {
		return false, nil
	}
	m.locks[key] = true
	return true, nil
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// MockCache is an in-memory Cache without TTL handling.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
