package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderflow/core/internal/inventory/domain"
)

// Repository keeps stock counters in Postgres. The conditional UPDATE
// in Reserve is the atomic check-then-decrement: two overlapping
// reservations can never jointly push a counter below zero.
type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS stock (
		product_id TEXT PRIMARY KEY,
		quantity   BIGINT NOT NULL CHECK (quantity >= 0),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

func (r *Repository) Get(ctx context.Context, productID string) (int64, error) {
	var qty int64
	err := r.pool.QueryRow(ctx, `SELECT quantity FROM stock WHERE product_id=$1`, productID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrProductNotFound
		}
		return 0, err
	}
	return qty, nil
}

func (r *Repository) Reserve(ctx context.Context, productID string, quantity int64) (int64, error) {
	var remaining int64
	err := r.pool.QueryRow(ctx, `
		UPDATE stock
		SET quantity = quantity - $2, updated_at = now()
		WHERE product_id = $1 AND quantity >= $2
		RETURNING quantity`, productID, quantity).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// No row matched: unknown product or not enough stock.
	if _, err := r.Get(ctx, productID); err != nil {
		return 0, err
	}
	return 0, domain.ErrInsufficientStock
}

func (r *Repository) Set(ctx context.Context, productID string, quantity int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stock
		SET quantity = $2, updated_at = now()
		WHERE product_id = $1`, productID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Seed inserts a product if absent; used by bootstrap and tests.
func (r *Repository) Seed(ctx context.Context, productID string, quantity int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO stock (product_id, quantity)
		VALUES ($1, $2)
		ON CONFLICT (product_id) DO NOTHING`, productID, quantity)
	return err
}
