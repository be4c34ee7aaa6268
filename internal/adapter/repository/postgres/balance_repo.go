package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/freightpoint/ledger/internal/domain"
	"github.com/freightpoint/ledger/internal/usecase"
)

// BalanceRepository implements usecase.BalanceRepository.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

// GetByUserID retrieves a user's balance.
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserBalance, error) {
	query := `
		SELECT user_id, balance, version, allow_negative, updated_at
		FROM user_balances
		WHERE user_id = $1
	`

	balance, err := scanBalance(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBalanceNotFound
	}

	return balance, err
}

// GetByUserIDsForUpdate locks and retrieves balances inside the given
// transaction. Rows are locked in user_id order regardless of input order so
// two concurrent writers touching the same pair cannot deadlock.
func (r *BalanceRepository) GetByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.UserBalance, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		SELECT user_id, balance, version, allow_negative, updated_at
		FROM user_balances
		WHERE user_id = ANY($1)
		ORDER BY user_id
		FOR UPDATE
	`

	rows, err := pgxTx.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.UserBalance
	for rows.Next() {
		balance, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, balance)
	}

	return balances, rows.Err()
}

// UpdateBalance writes a user's new balance inside the given transaction.
func (r *BalanceRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, userID string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE user_balances
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE user_id = $1
	`

	tag, err := pgxTx.Exec(ctx, query, userID, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrBalanceNotFound
	}

	return nil
}

func scanBalance(row pgx.Row) (*domain.UserBalance, error) {
	var (
		balance   domain.UserBalance
		amount    pgtype.Numeric
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&balance.UserID,
		&amount,
		&balance.Version,
		&balance.AllowNegative,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	balance.Balance = numericToDecimal(amount)
	balance.UpdatedAt = updatedAt.Time

	return &balance, nil
}
