package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

// Unique violation on this partial index means a concurrent request already
// wrote the refund for the same (order, user) pair.
const refundOnceConstraint = "balance_transactions_refund_once"

const pgErrUniqueViolation = "23505"

const entryColumns = `
	transaction_id, user_id, order_id, order_number, order_account,
	company_name, description, transaction_type, status, amount, base_amount,
	previous_balance, current_balance, is_supervisor_transaction, metadata,
	created_at
`

// EntryRepository implements usecase.EntryRepository over the
// balance_transactions table.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// CreateTx inserts an entry inside the given transaction. Entries are
// write-once; there is no update path.
func (r *EntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	query := `
		INSERT INTO balance_transactions (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = pgxTx.Exec(ctx, query,
		entry.TransactionID,
		entry.UserID,
		entry.OrderID,
		entry.OrderNumber,
		entry.OrderAccount,
		entry.CompanyName,
		entry.Description,
		entry.TransactionType,
		entry.Status,
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.BaseAmount),
		decimalToNumeric(entry.PreviousBalance),
		decimalToNumeric(entry.CurrentBalance),
		entry.IsSupervisorTransaction,
		metadata,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == refundOnceConstraint {
		return domain.ErrDuplicateRefund
	}

	return err
}

// GetByTransactionID retrieves an entry by its transaction ID.
func (r *EntryRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM balance_transactions
		WHERE transaction_id = $1
	`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, transactionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}

	return entry, err
}

// GetByOrder retrieves all entries recorded against an order, customer and
// supervisor sides alike.
func (r *EntryRepository) GetByOrder(ctx context.Context, orderID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM balance_transactions
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListByUser retrieves a user's entries, newest first.
func (r *EntryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// FindRefund returns the customer-side refund entry for (orderID, userID), or
// nil when none exists.
func (r *EntryRepository) FindRefund(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error) {
	return r.findByType(ctx, r.pool, orderID, userID, domain.TransactionTypeRefund)
}

// FindRefundTx runs the refund lookup inside the given transaction so a
// concurrent duplicate cannot slip between check and insert.
func (r *EntryRepository) FindRefundTx(ctx context.Context, tx usecase.Transaction, orderID, userID string) (*domain.LedgerEntry, error) {
	return r.findByType(ctx, tx.(*Tx).PgxTx(), orderID, userID, domain.TransactionTypeRefund)
}

// FindDebit returns the customer-side debit entry for (orderID, userID), or
// nil when none exists.
func (r *EntryRepository) FindDebit(ctx context.Context, orderID, userID string) (*domain.LedgerEntry, error) {
	return r.findByType(ctx, r.pool, orderID, userID, domain.TransactionTypeDebit)
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *EntryRepository) findByType(ctx context.Context, q queryer, orderID, userID string, txType domain.TransactionType) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM balance_transactions
		WHERE order_id = $1
		  AND user_id = $2
		  AND transaction_type = $3
		  AND NOT is_supervisor_transaction
		ORDER BY created_at ASC
		LIMIT 1
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, orderID, userID, txType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return entry, err
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		metadata  []byte
		createdAt pgtype.Timestamptz
		amount    pgtype.Numeric
		base      pgtype.Numeric
		prev      pgtype.Numeric
		current   pgtype.Numeric
	)

	err := row.Scan(
		&entry.TransactionID,
		&entry.UserID,
		&entry.OrderID,
		&entry.OrderNumber,
		&entry.OrderAccount,
		&entry.CompanyName,
		&entry.Description,
		&entry.TransactionType,
		&entry.Status,
		&amount,
		&base,
		&prev,
		&current,
		&entry.IsSupervisorTransaction,
		&metadata,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.BaseAmount = numericToDecimal(base)
	entry.PreviousBalance = numericToDecimal(prev)
	entry.CurrentBalance = numericToDecimal(current)
	entry.CreatedAt = createdAt.Time

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}

	return &entry, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
