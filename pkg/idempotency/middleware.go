package idempotency

import (
	"context"
	"log/slog"
	"net/http"
)

const HeaderKey = "Idempotency-Key"

// Checker is the subset of Store the middleware needs.
type Checker interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// Middleware rejects requests replaying an Idempotency-Key that was
// already accepted. Requests without the header pass through untouched,
// and a failing checker fails open so the store never blocks traffic.
func Middleware(checker Checker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(HeaderKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			seen, err := checker.Seen(r.Context(), key)
			if err != nil {
				log.Error("idempotency check failed", "key", key, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Info("duplicate request rejected", "key", key)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(`{"error":"duplicate request"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
