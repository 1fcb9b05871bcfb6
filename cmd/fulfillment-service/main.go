package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/orderflow/core/internal/config"
	"github.com/orderflow/core/internal/pricing"
	"github.com/orderflow/core/pkg/eventbus"
	"github.com/orderflow/core/pkg/idempotency"
	"github.com/orderflow/core/pkg/logging"
	"github.com/orderflow/core/pkg/shutdown"
	"github.com/orderflow/core/pkg/tracing"

	fulfillapp "github.com/orderflow/core/internal/fulfillment/application"
	fulfillhttp "github.com/orderflow/core/internal/fulfillment/infrastructure/http"
	fulfillpg "github.com/orderflow/core/internal/fulfillment/infrastructure/postgres"
	invapp "github.com/orderflow/core/internal/inventory/application"
	invpg "github.com/orderflow/core/internal/inventory/infrastructure/postgres"
	payapp "github.com/orderflow/core/internal/payment/application"
)

// initialStock mirrors the seed catalogue; Seed is a no-op for
// products that already exist.
var initialStock = map[string]int64{
	"1": 50,
	"2": 100,
	"3": 200,
}

func main() {
	log := logging.New("fulfillment-service")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg := config.Load()

	tp, err := tracing.Init(ctx, "fulfillment-service", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(ctx) }()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	stockRepo := invpg.NewRepository(log, pool)
	orderRepo := fulfillpg.NewRepository(log, pool)
	if err := stockRepo.EnsureSchema(ctx); err != nil {
		log.Error("stock schema failed", "err", err)
		os.Exit(1)
	}
	if err := orderRepo.EnsureSchema(ctx); err != nil {
		log.Error("orders schema failed", "err", err)
		os.Exit(1)
	}
	for productID, qty := range initialStock {
		if err := stockRepo.Seed(ctx, productID, qty); err != nil {
			log.Error("stock seed failed", "product_id", productID, "err", err)
			os.Exit(1)
		}
	}

	// Redis
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	idemStore := idempotency.NewStore(rdb, cfg.IdempotencyTTL)

	// Kafka producer
	bus := eventbus.NewKafkaPublisher(log, cfg.KafkaBrokers)
	defer bus.Close()

	// Wiring
	gateway := payapp.NewGateway(log, bus, cfg.PaymentApprovalRate)
	inventory := invapp.NewService(log, stockRepo, bus)
	svc := fulfillapp.NewService(log, gateway, inventory, pricing.DefaultCatalog(), bus, orderRepo, fulfillapp.Config{
		PaymentTimeout:   cfg.PaymentTimeout,
		InventoryTimeout: cfg.InventoryTimeout,
		PublishTimeout:   cfg.PublishTimeout,
	})
	handler := fulfillhttp.NewHandler(log, svc, orderRepo)

	// HTTP server
	r := chi.NewRouter()
	r.Use(idempotency.Middleware(idemStore, log))
	r.Mount("/", handler.Routes())
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("fulfillment-service shutdown complete")
}
