package application

import "context"

// StockStore owns the per-product stock counters. Reserve must apply
// its check-then-decrement as a single atomic step with respect to
// concurrent reservations of the same product.
type StockStore interface {
	Get(ctx context.Context, productID string) (int64, error)
	Reserve(ctx context.Context, productID string, quantity int64) (remaining int64, err error)
	Set(ctx context.Context, productID string, quantity int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}
