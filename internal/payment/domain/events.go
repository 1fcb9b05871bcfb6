package domain

import "time"

// Topics the gateway publishes to. These are informational side
// channels, distinct from the order lifecycle topic.
const (
	TopicProcessed = "payment.processed"
	TopicFailed    = "payment.failed"
	TopicRefunded  = "payment.refunded"
)

type ProcessedEvent struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	AmountCents   int64     `json:"amount"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

type FailedEvent struct {
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	AmountCents int64     `json:"amount"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

type RefundedEvent struct {
	TransactionID string    `json:"transactionId"`
	RefundID      string    `json:"refundId"`
	AmountCents   int64     `json:"amount"`
	Reason        string    `json:"reason"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}
