package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderflow/core/internal/fulfillment/domain"
)

// Repository is the order read model. Writes are upserts keyed by
// order id so a replayed save of the same terminal record is harmless.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS orders (
		order_id       TEXT PRIMARY KEY,
		user_id        TEXT NOT NULL,
		product_id     TEXT NOT NULL,
		quantity       BIGINT NOT NULL,
		status         TEXT NOT NULL,
		transaction_id TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func (r *Repository) SaveOutcome(ctx context.Context, order domain.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (order_id, user_id, product_id, quantity, status, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO UPDATE
		SET status = EXCLUDED.status, transaction_id = EXCLUDED.transaction_id`,
		order.OrderID, order.UserID, order.ProductID, order.Quantity,
		string(order.Status), order.TransactionID, order.CreatedAt)
	return err
}

func (r *Repository) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var (
		order  domain.Order
		status string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT order_id, user_id, product_id, quantity, status, transaction_id, created_at
		FROM orders WHERE order_id = $1`, orderID).
		Scan(&order.OrderID, &order.UserID, &order.ProductID, &order.Quantity,
			&status, &order.TransactionID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	order.Status = domain.Status(status)
	return order, nil
}
