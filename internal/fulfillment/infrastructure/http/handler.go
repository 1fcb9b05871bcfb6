package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderflow/core/internal/fulfillment/domain"
)

type Fulfiller interface {
	Fulfill(ctx context.Context, req domain.OrderRequest) (domain.Outcome, error)
}

type OrderGetter interface {
	Get(ctx context.Context, orderID string) (domain.Order, error)
}

type Handler struct {
	log     *slog.Logger
	service Fulfiller
	orders  OrderGetter
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service Fulfiller, orders OrderGetter) *Handler {
	return &Handler{
		log:     log,
		service: service,
		orders:  orders,
		tracer:  otel.Tracer("fulfillment-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/health", h.health)

	return r
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreateOrder")
	defer span.End()

	var req domain.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	outcome, err := h.service.Fulfill(ctx, req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, statusCode(outcome.Status), outcome)
}

type orderResponse struct {
	OrderID       string        `json:"orderId"`
	UserID        string        `json:"userId"`
	ProductID     string        `json:"productId"`
	Quantity      int64         `json:"quantity"`
	Status        domain.Status `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
	CreatedAt     string        `json:"createdAt"`
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	order, err := h.orders.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		h.log.Error("load order", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, orderResponse{
		OrderID:       order.OrderID,
		UserID:        order.UserID,
		ProductID:     order.ProductID,
		Quantity:      order.Quantity,
		Status:        order.Status,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// statusCode maps a terminal fulfillment status onto the wire: the
// client can always tell a business rejection from an infrastructure
// fault.
func statusCode(s domain.Status) int {
	switch s {
	case domain.StatusCompleted:
		return http.StatusOK
	case domain.StatusPaymentFailed:
		return http.StatusPaymentRequired
	case domain.StatusInventoryFailed:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
