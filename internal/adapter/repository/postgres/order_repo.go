package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightpoint/ledger/internal/domain"
)

// OrderRepository reads the order-management collaborator's records. Order
// rows are never written from this service.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, order_number, order_account, company_name, user_id, status,
		       order_amount, base_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var (
		order       domain.Order
		orderAmount pgtype.Numeric
		baseAmount  pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.OrderNumber,
		&order.OrderAccount,
		&order.CompanyName,
		&order.UserID,
		&order.Status,
		&orderAmount,
		&baseAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.OrderAmount = numericToDecimal(orderAmount)
	order.BaseAmount = numericToDecimal(baseAmount)

	return &order, nil
}
