package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightpoint/ledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Drift reports orders where the customer-side base totals and the
// supervisor-side totals disagree. For a healthy order both sides sum to the
// same value, so only broken pairs come back.
func (r *LedgerRepository) Drift(ctx context.Context, limit int) ([]*usecase.OrderDrift, error) {
	query := `
		SELECT order_id,
		       COALESCE(SUM(base_amount) FILTER (WHERE NOT is_supervisor_transaction), 0) AS customer_total,
		       COALESCE(SUM(amount) FILTER (WHERE is_supervisor_transaction), 0) AS supervisor_total
		FROM balance_transactions
		WHERE order_id IS NOT NULL
		GROUP BY order_id
		HAVING COALESCE(SUM(base_amount) FILTER (WHERE NOT is_supervisor_transaction), 0)
		    <> COALESCE(SUM(amount) FILTER (WHERE is_supervisor_transaction), 0)
		ORDER BY order_id
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []*usecase.OrderDrift
	for rows.Next() {
		var (
			drift      usecase.OrderDrift
			customer   pgtype.Numeric
			supervisor pgtype.Numeric
		)
		if err := rows.Scan(&drift.OrderID, &customer, &supervisor); err != nil {
			return nil, err
		}

		drift.CustomerTotal = numericToDecimal(customer)
		drift.SupervisorTotal = numericToDecimal(supervisor)
		drift.Drift = drift.CustomerTotal.Sub(drift.SupervisorTotal)

		drifts = append(drifts, &drift)
	}

	return drifts, rows.Err()
}
