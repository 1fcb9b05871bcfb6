package idempotency

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	seen map[string]bool
	err  error
}

func (f *fakeChecker) Seen(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	was := f.seen[key]
	f.seen[key] = true
	return was, nil
}

func serve(checker Checker) (*httptest.ResponseRecorder, func(key string) *httptest.ResponseRecorder) {
	log := slog.New(slog.DiscardHandler)
	h := Middleware(checker, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	do := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		if key != "" {
			req.Header.Set(HeaderKey, key)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}
	return do(""), do
}

func TestMiddlewarePassesWithoutKey(t *testing.T) {
	w, _ := serve(&fakeChecker{seen: map[string]bool{}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareRejectsReplay(t *testing.T) {
	_, do := serve(&fakeChecker{seen: map[string]bool{}})
	assert.Equal(t, http.StatusOK, do("abc").Code)
	assert.Equal(t, http.StatusConflict, do("abc").Code)
	assert.Equal(t, http.StatusOK, do("other").Code)
}

func TestMiddlewareFailsOpen(t *testing.T) {
	_, do := serve(&fakeChecker{err: errors.New("redis down")})
	assert.Equal(t, http.StatusOK, do("abc").Code)
}
