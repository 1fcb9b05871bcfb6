package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orderflow/core/internal/inventory/domain"
)

// Service implements the reservation contract: NotFound for unknown
// products, FailedPrecondition when a reservation would overdraw
// stock. Every successful mutation announces the new level on the
// inventory-updates topic.
type Service struct {
	log   *slog.Logger
	store StockStore
	bus   EventPublisher
}

func NewService(log *slog.Logger, store StockStore, bus EventPublisher) *Service {
	return &Service{log: log, store: store, bus: bus}
}

func (s *Service) CheckStock(ctx context.Context, productID string) (int64, error) {
	qty, err := s.store.Get(ctx, productID)
	if err != nil {
		return 0, translate(err)
	}
	return qty, nil
}

func (s *Service) Reserve(ctx context.Context, productID string, quantity int64) (int64, error) {
	if quantity <= 0 {
		return 0, status.Error(codes.InvalidArgument, "quantity must be positive")
	}

	remaining, err := s.store.Reserve(ctx, productID, quantity)
	if err != nil {
		return 0, translate(err)
	}

	s.publishUpdate(ctx, productID, remaining)
	return remaining, nil
}

// SetStock overwrites the absolute stock level of an existing product.
func (s *Service) SetStock(ctx context.Context, productID string, quantity int64) (int64, error) {
	if quantity < 0 {
		return 0, status.Error(codes.InvalidArgument, "quantity must not be negative")
	}

	if err := s.store.Set(ctx, productID, quantity); err != nil {
		return 0, translate(err)
	}

	s.publishUpdate(ctx, productID, quantity)
	return quantity, nil
}

func (s *Service) publishUpdate(ctx context.Context, productID string, newStock int64) {
	payload, err := json.Marshal(domain.UpdatedEvent{
		ProductID: productID,
		NewStock:  newStock,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("marshal inventory event", "product_id", productID, "err", err)
		return
	}
	if err := s.bus.Publish(ctx, domain.TopicUpdates, productID, payload); err != nil {
		s.log.Error("publish inventory update", "product_id", productID, "err", err)
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return status.Error(codes.NotFound, "product not found in inventory")
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, "insufficient stock")
	default:
		return err
	}
}
