package domain

import "time"

// Card is the payment instrument presented with a charge.
type Card struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

func (c Card) Complete() bool {
	return c.Number != "" && c.Expiry != "" && c.CVV != ""
}

// Charge is one authorization request against an order.
type Charge struct {
	OrderID     string
	UserID      string
	AmountCents int64
	Currency    string
	Card        Card
}

type Result struct {
	Success       bool      `json:"success"`
	TransactionID string    `json:"transactionId"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

type RefundResult struct {
	Success   bool      `json:"success"`
	RefundID  string    `json:"refundId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
