package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderflow/core/internal/fulfillment/domain"

	fulfillhttp "github.com/orderflow/core/internal/fulfillment/infrastructure/http"
)

type fakeFulfiller struct {
	outcome domain.Outcome
	err     error
	reqs    []domain.OrderRequest
}

func (f *fakeFulfiller) Fulfill(_ context.Context, req domain.OrderRequest) (domain.Outcome, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return domain.Outcome{}, f.err
	}
	return f.outcome, nil
}

type fakeOrders struct {
	order domain.Order
	err   error
}

func (f *fakeOrders) Get(context.Context, string) (domain.Order, error) {
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return f.order, nil
}

func newServer(fulfiller *fakeFulfiller, orders *fakeOrders) *httptest.Server {
	h := fulfillhttp.NewHandler(slog.New(slog.DiscardHandler), fulfiller, orders)
	return httptest.NewServer(h.Routes())
}

const orderBody = `{"userId":"user-1","productId":"1","quantity":2,"card":{"number":"4242424242424242","expiry":"12/27","cvv":"123"}}`

func postOrder(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestCreateOrderCompleted(t *testing.T) {
	fulfiller := &fakeFulfiller{outcome: domain.Outcome{
		OrderID:       "ord-1",
		Status:        domain.StatusCompleted,
		TransactionID: "txn_abc",
	}}
	srv := newServer(fulfiller, &fakeOrders{})
	defer srv.Close()

	resp, body := postOrder(t, srv, orderBody)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "txn_abc", body["transactionId"])

	require.Len(t, fulfiller.reqs, 1)
	assert.Equal(t, "user-1", fulfiller.reqs[0].UserID)
	assert.Equal(t, int64(2), fulfiller.reqs[0].Quantity)
}

func TestCreateOrderStatusMapping(t *testing.T) {
	cases := []struct {
		status domain.Status
		code   int
	}{
		{domain.StatusPaymentFailed, http.StatusPaymentRequired},
		{domain.StatusInventoryFailed, http.StatusConflict},
		{domain.StatusSystemError, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			srv := newServer(&fakeFulfiller{outcome: domain.Outcome{OrderID: "ord-1", Status: tc.status}}, &fakeOrders{})
			defer srv.Close()

			resp, body := postOrder(t, srv, orderBody)
			assert.Equal(t, tc.code, resp.StatusCode)
			assert.Equal(t, string(tc.status), body["status"])
		})
	}
}

func TestCreateOrderInvalidBody(t *testing.T) {
	fulfiller := &fakeFulfiller{}
	srv := newServer(fulfiller, &fakeOrders{})
	defer srv.Close()

	resp, _ := postOrder(t, srv, "{not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, fulfiller.reqs)
}

func TestCreateOrderInvalidRequest(t *testing.T) {
	srv := newServer(&fakeFulfiller{err: domain.ErrInvalidRequest}, &fakeOrders{})
	defer srv.Close()

	resp, body := postOrder(t, srv, `{"userId":"","productId":"1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "invalid order request")
}

func TestGetOrder(t *testing.T) {
	orders := &fakeOrders{order: domain.Order{
		OrderID:       "ord-1",
		UserID:        "user-1",
		ProductID:     "1",
		Quantity:      2,
		Status:        domain.StatusCompleted,
		TransactionID: "txn_abc",
		CreatedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}
	srv := newServer(&fakeFulfiller{}, orders)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/ord-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ord-1", body["orderId"])
	assert.Equal(t, "COMPLETED", body["status"])
	assert.Equal(t, "2024-05-01T12:00:00Z", body["createdAt"])
}

func TestGetOrderNotFound(t *testing.T) {
	srv := newServer(&fakeFulfiller{}, &fakeOrders{err: domain.ErrOrderNotFound})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	srv := newServer(&fakeFulfiller{}, &fakeOrders{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "OK", body["status"])
}
