package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/orderflow/core/internal/fulfillment/domain"

	paydom "github.com/orderflow/core/internal/payment/domain"
)

const defaultCallTimeout = 5 * time.Second

type Config struct {
	PaymentTimeout   time.Duration
	InventoryTimeout time.Duration
	PublishTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.PaymentTimeout <= 0 {
		c.PaymentTimeout = defaultCallTimeout
	}
	if c.InventoryTimeout <= 0 {
		c.InventoryTimeout = defaultCallTimeout
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = defaultCallTimeout
	}
	return c
}

// Service drives one fulfillment attempt: charge payment, reserve
// inventory, announce the result. Steps are strictly sequential and
// never retried here; a transport failure aborts the attempt with
// SYSTEM_ERROR and leaves retry policy to the caller.
//
// A payment that succeeded before a later failure is not refunded; the
// transaction id is preserved in the outcome for reconciliation.
type Service struct {
	log       *slog.Logger
	gateway   PaymentGateway
	inventory Inventory
	pricer    Pricer
	bus       EventPublisher
	store     OrderStore
	cfg       Config
	tracer    trace.Tracer
}

func NewService(log *slog.Logger, gateway PaymentGateway, inventory Inventory, pricer Pricer, bus EventPublisher, store OrderStore, cfg Config) *Service {
	return &Service{
		log:       log,
		gateway:   gateway,
		inventory: inventory,
		pricer:    pricer,
		bus:       bus,
		store:     store,
		cfg:       cfg.withDefaults(),
		tracer:    otel.Tracer("fulfillment"),
	}
}

// Fulfill runs the saga for one order request. The returned error is
// non-nil only for an invalid request, which has no side effects;
// every downstream failure is encoded in the outcome status.
func (s *Service) Fulfill(ctx context.Context, req domain.OrderRequest) (domain.Outcome, error) {
	if err := req.Validate(); err != nil {
		return domain.Outcome{}, err
	}

	ctx, span := s.tracer.Start(ctx, "Fulfill")
	defer span.End()

	orderID := uuid.NewString()
	log := s.log.With("order_id", orderID, "user_id", req.UserID, "product_id", req.ProductID)

	price, err := s.pricer.Price(ctx, req.ProductID)
	if err != nil {
		log.Error("price lookup failed", "err", err)
		return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusSystemError}), nil
	}

	payCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	result, err := s.gateway.Authorize(payCtx, paydom.Charge{
		OrderID:     orderID,
		UserID:      req.UserID,
		AmountCents: price.AmountCents * req.Quantity,
		Currency:    price.Currency,
		Card:        req.Card,
	})
	cancel()
	if err != nil {
		if reason, ok := collaboratorFailure(err); ok {
			log.Info("payment declined", "reason", reason)
			s.publish(ctx, log, orderID, domain.EventPaymentFailed, domain.PaymentFailedPayload{
				OrderID: orderID,
				UserID:  req.UserID,
				Reason:  reason,
			})
			return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusPaymentFailed}), nil
		}
		log.Error("payment call failed", "err", err)
		return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusSystemError}), nil
	}
	txnID := result.TransactionID

	invCtx, cancel := context.WithTimeout(ctx, s.cfg.InventoryTimeout)
	_, err = s.inventory.Reserve(invCtx, req.ProductID, req.Quantity)
	cancel()
	if err != nil {
		if reason, ok := collaboratorFailure(err); ok {
			log.Info("reservation rejected", "reason", reason, "transaction_id", txnID)
			s.publish(ctx, log, orderID, domain.EventInventoryFailed, domain.InventoryFailedPayload{
				OrderID:       orderID,
				UserID:        req.UserID,
				ProductID:     req.ProductID,
				Quantity:      req.Quantity,
				TransactionID: txnID,
				Reason:        reason,
			})
			return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusInventoryFailed, TransactionID: txnID}), nil
		}
		log.Error("inventory call failed", "transaction_id", txnID, "err", err)
		return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusSystemError, TransactionID: txnID}), nil
	}

	s.publish(ctx, log, orderID, domain.EventOrderCompleted, domain.OrderCompletedPayload{
		OrderID:       orderID,
		UserID:        req.UserID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		TransactionID: txnID,
	})
	log.Info("order fulfilled", "transaction_id", txnID)
	return s.finish(ctx, log, req, domain.Outcome{OrderID: orderID, Status: domain.StatusCompleted, TransactionID: txnID}), nil
}

// publish is best-effort: a bus failure is logged and never changes an
// already-decided outcome.
func (s *Service) publish(ctx context.Context, log *slog.Logger, orderID, eventType string, payload any) {
	body, err := json.Marshal(domain.Envelope{Type: eventType, Payload: payload})
	if err != nil {
		log.Error("marshal order event", "type", eventType, "err", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, s.cfg.PublishTimeout)
	defer cancel()
	if err := s.bus.Publish(pubCtx, domain.TopicOrderEvents, orderID, body); err != nil {
		log.Error("publish order event", "type", eventType, "err", err)
	}
}

// finish hands the terminal record to the read model. The store is
// downstream of the decision, so its errors are logged only.
func (s *Service) finish(ctx context.Context, log *slog.Logger, req domain.OrderRequest, outcome domain.Outcome) domain.Outcome {
	err := s.store.SaveOutcome(ctx, domain.Order{
		OrderID:       outcome.OrderID,
		UserID:        req.UserID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Status:        outcome.Status,
		TransactionID: outcome.TransactionID,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		log.Error("save order outcome", "status", outcome.Status, "err", err)
	}
	return outcome
}

// collaboratorFailure reports whether the error is a decision the
// collaborator made (declined charge, missing product, not enough
// stock) rather than a transport fault.
func collaboratorFailure(err error) (string, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return "", false
	}
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition, codes.Internal:
		return st.Message(), true
	default:
		return "", false
	}
}
