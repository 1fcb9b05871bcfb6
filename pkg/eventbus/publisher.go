package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/orderflow/core/pkg/tracing"
)

// Publisher hands an event record to a named topic. Implementations
// must not return before the record is durably queued, or must surface
// a delivery error.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// KafkaPublisher writes events through a single shared writer with
// acks from all in-sync replicas. Transient broker failures are retried
// with bounded exponential backoff before the error is surfaced.
type KafkaPublisher struct {
	log         *slog.Logger
	writer      *kafka.Writer
	maxAttempts int
}

func NewKafkaPublisher(log *slog.Logger, brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		log: log,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
		maxAttempts: 5,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	msg := kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   payload,
		Headers: tracing.InjectKafkaHeaders(ctx, nil),
	}

	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay(attempt)):
			}
		}
		if err = p.writer.WriteMessages(ctx, msg); err == nil {
			return nil
		}
		p.log.Warn("publish attempt failed", "topic", topic, "attempt", attempt+1, "err", err)
	}
	return fmt.Errorf("publish to %s: %w", topic, err)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// retryDelay doubles per attempt, capped at one minute.
func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		attempt = 5
	}
	d := time.Duration(1<<attempt) * time.Second
	if d > time.Minute {
		d = time.Minute
	}
	return d
}
