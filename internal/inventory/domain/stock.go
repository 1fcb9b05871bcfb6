package domain

import (
	"errors"
	"time"
)

// Store-level failures; the application layer translates these into
// the wire contract's status codes.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

const TopicUpdates = "inventory-updates"

// UpdatedEvent announces the new absolute stock level of a product.
type UpdatedEvent struct {
	ProductID string    `json:"productId"`
	NewStock  int64     `json:"newStock"`
	Timestamp time.Time `json:"timestamp"`
}
