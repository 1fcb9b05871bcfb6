package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orderflow/core/internal/payment/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Gateway simulates a remote payment processor. Contract errors are
// carried as gRPC status codes: InvalidArgument for missing fields,
// Internal for a declined charge. Event publishes are informational
// and never change the result of an operation.
type Gateway struct {
	log          *slog.Logger
	bus          EventPublisher
	approvalRate float64
	rng          func() float64
	now          func() time.Time
}

func NewGateway(log *slog.Logger, bus EventPublisher, approvalRate float64) *Gateway {
	return &Gateway{
		log:          log,
		bus:          bus,
		approvalRate: approvalRate,
		rng:          rand.Float64,
		now:          time.Now,
	}
}

// Authorize places a charge. Validation failures publish nothing.
func (g *Gateway) Authorize(ctx context.Context, ch domain.Charge) (domain.Result, error) {
	if ch.OrderID == "" || ch.UserID == "" || ch.AmountCents <= 0 {
		return domain.Result{}, status.Error(codes.InvalidArgument, "orderId, userId and amount are required")
	}
	if !ch.Card.Complete() {
		return domain.Result{}, status.Error(codes.InvalidArgument, "payment card details are incomplete")
	}

	now := g.now().UTC()
	if g.rng() >= g.approvalRate {
		g.publish(ctx, domain.TopicFailed, ch.OrderID, domain.FailedEvent{
			OrderID:     ch.OrderID,
			UserID:      ch.UserID,
			AmountCents: ch.AmountCents,
			Status:      "failed",
			Reason:      "payment declined",
			Timestamp:   now,
		})
		return domain.Result{}, status.Error(codes.Internal, "payment declined")
	}

	txnID := "txn_" + uuid.NewString()
	g.publish(ctx, domain.TopicProcessed, ch.OrderID, domain.ProcessedEvent{
		OrderID:       ch.OrderID,
		UserID:        ch.UserID,
		AmountCents:   ch.AmountCents,
		TransactionID: txnID,
		Status:        "success",
		Timestamp:     now,
	})

	return domain.Result{
		Success:       true,
		TransactionID: txnID,
		Message:       "payment authorized",
		Timestamp:     now,
	}, nil
}

// Refund reverses a prior charge. Not called by the fulfillment flow
// today; kept for a future compensation step.
func (g *Gateway) Refund(ctx context.Context, transactionID string, amountCents int64, reason string) (domain.RefundResult, error) {
	if transactionID == "" || amountCents <= 0 {
		return domain.RefundResult{}, status.Error(codes.InvalidArgument, "transactionId and amount are required")
	}

	now := g.now().UTC()
	if g.rng() >= g.approvalRate {
		return domain.RefundResult{}, status.Error(codes.Internal, "refund failed")
	}

	refundID := "ref_" + uuid.NewString()
	g.publish(ctx, domain.TopicRefunded, transactionID, domain.RefundedEvent{
		TransactionID: transactionID,
		RefundID:      refundID,
		AmountCents:   amountCents,
		Reason:        reason,
		Status:        "refunded",
		Timestamp:     now,
	})

	return domain.RefundResult{
		Success:   true,
		RefundID:  refundID,
		Message:   "refund processed",
		Timestamp: now,
	}, nil
}

func (g *Gateway) publish(ctx context.Context, topic, key string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		g.log.Error("marshal payment event", "topic", topic, "err", err)
		return
	}
	if err := g.bus.Publish(ctx, topic, key, payload); err != nil {
		g.log.Error("publish payment event", "topic", topic, "key", key, "err", err)
	}
}
