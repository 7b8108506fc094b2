package opsworker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/vantagefleet/build-orders/internal/kafka"
	"github.com/vantagefleet/build-orders/internal/orders"
	"github.com/vantagefleet/build-orders/internal/redisx"
)

// Service keeps the Redis order cache honest as transitions stream in.
// Handlers are idempotent: replayed events are dropped by the dedup key.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleStatusEvent is wired as the consumer handler for the status
// topic.
func (s *Service) HandleStatusEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "ops-cache", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	// Every status-topic event invalidates the cached snapshot so the next
	// read refetches the new state.
	if env.CorrelationID != "" {
		_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrder, env.CorrelationID)).Err()
	}

	switch env.EventType {
	case orders.EventStatusChanged, orders.EventOrderCanceled:
		p, err := kafkax.UnwrapPayload[orders.StatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		log.Printf("order %s: %s -> %s (by %s)", p.OrderID, p.From, p.To, p.Actor)
	default:
		log.Printf("order %s: %s", env.CorrelationID, env.EventType)
	}
	return nil
}
