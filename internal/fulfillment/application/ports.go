package application

import (
	"context"

	"github.com/orderflow/core/internal/fulfillment/domain"
	"github.com/orderflow/core/internal/pricing"

	paydom "github.com/orderflow/core/internal/payment/domain"
)

type PaymentGateway interface {
	Authorize(ctx context.Context, charge paydom.Charge) (paydom.Result, error)
}

type Inventory interface {
	Reserve(ctx context.Context, productID string, quantity int64) (remaining int64, err error)
}

type Pricer interface {
	Price(ctx context.Context, productID string) (pricing.Price, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// OrderStore is the read model: it only ever receives the terminal
// record of an attempt.
type OrderStore interface {
	SaveOutcome(ctx context.Context, order domain.Order) error
}
