package domain

import (
	"errors"
	"time"

	paydom "github.com/orderflow/core/internal/payment/domain"
)

var (
	ErrInvalidRequest = errors.New("invalid order request")
	ErrOrderNotFound  = errors.New("order not found")
)

// OrderRequest is the immutable input to one fulfillment attempt.
type OrderRequest struct {
	UserID    string      `json:"userId"`
	ProductID string      `json:"productId"`
	Quantity  int64       `json:"quantity"`
	Card      paydom.Card `json:"card"`
}

func (r OrderRequest) Validate() error {
	if r.UserID == "" || r.ProductID == "" || r.Quantity <= 0 {
		return ErrInvalidRequest
	}
	return nil
}

type Status string

const (
	StatusCompleted       Status = "COMPLETED"
	StatusPaymentFailed   Status = "PAYMENT_FAILED"
	StatusInventoryFailed Status = "INVENTORY_FAILED"
	StatusSystemError     Status = "SYSTEM_ERROR"
)

// Outcome is the terminal result of a fulfillment attempt. The
// transaction id is present whenever payment succeeded, even when a
// later step failed, so a reconciliation flow can find the charge.
type Outcome struct {
	OrderID       string `json:"orderId"`
	Status        Status `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Order is the read-model record handed off once an attempt resolves.
type Order struct {
	OrderID       string
	UserID        string
	ProductID     string
	Quantity      int64
	Status        Status
	TransactionID string
	CreatedAt     time.Time
}
