package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightpoint/ledger/internal/usecase"
)

// pgxPool is the one pool method the manager needs; tests substitute a stub.
type pgxPool interface {
	Begin(context.Context) (pgx.Tx, error)
}

// TxManager hands out database transactions for the dual-write path.
// It implements usecase.TransactionManager.
type TxManager struct {
	pool pgxPool
}

// NewTxManager creates a new TxManager on top of a pgx pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool pgxPool) *TxManager {
	return &TxManager{pool: pool}
}

// Begin starts a database transaction. Both ledger entries and both balance
// moves of a pair are written inside one of these.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}

	return &Tx{tx: tx}, nil
}

// Tx adapts a pgx transaction to usecase.Transaction.
type Tx struct {
	tx pgx.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction. Safe to defer after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// PgxTx exposes the underlying pgx.Tx to the repositories in this package.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
