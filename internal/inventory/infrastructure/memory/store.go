package memory

import (
	"context"
	"sync"

	"github.com/orderflow/core/internal/inventory/domain"
)

// Store keeps stock counters in process memory behind a single mutex,
// so check-then-decrement is atomic across concurrent reservations.
type Store struct {
	mu    sync.Mutex
	stock map[string]int64
}

func NewStore(initial map[string]int64) *Store {
	stock := make(map[string]int64, len(initial))
	for id, qty := range initial {
		stock[id] = qty
	}
	return &Store{stock: stock}
}

func (s *Store) Get(_ context.Context, productID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty, ok := s.stock[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	return qty, nil
}

func (s *Store) Reserve(_ context.Context, productID string, quantity int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	qty, ok := s.stock[productID]
	if !ok {
		return 0, domain.ErrProductNotFound
	}
	if qty < quantity {
		return 0, domain.ErrInsufficientStock
	}

	s.stock[productID] = qty - quantity
	return s.stock[productID], nil
}

func (s *Store) Set(_ context.Context, productID string, quantity int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stock[productID]; !ok {
		return domain.ErrProductNotFound
	}
	s.stock[productID] = quantity
	return nil
}
