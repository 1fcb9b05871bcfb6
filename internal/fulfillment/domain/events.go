package domain

// TopicOrderEvents carries the order lifecycle events consumed by
// notification and analytics services.
const TopicOrderEvents = "order-events"

const (
	EventOrderCompleted  = "ORDER_COMPLETED"
	EventPaymentFailed   = "PAYMENT_FAILED"
	EventInventoryFailed = "INVENTORY_FAILED"
)

// Envelope is the wire shape on the order-events topic.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type OrderCompletedPayload struct {
	OrderID       string `json:"orderId"`
	UserID        string `json:"userId"`
	ProductID     string `json:"productId"`
	Quantity      int64  `json:"quantity"`
	TransactionID string `json:"transactionId"`
}

type PaymentFailedPayload struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Reason  string `json:"reason"`
}

type InventoryFailedPayload struct {
	OrderID       string `json:"orderId"`
	UserID        string `json:"userId"`
	ProductID     string `json:"productId"`
	Quantity      int64  `json:"quantity"`
	TransactionID string `json:"transactionId"`
	Reason        string `json:"reason"`
}
