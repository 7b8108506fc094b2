package kafka

import (
	"github.com/segmentio/kafka-go"

	"github.com/vantagefleet/build-orders/internal/orders"
)

// OrderSink routes order envelopes onto the intake and status topics with
// the standard event headers.
type OrderSink struct {
	Intake *Producer
	Status *Producer
}

func (s *OrderSink) PublishIntake(env orders.Envelope) {
	publishEnvelope(s.Intake, env)
}

func (s *OrderSink) PublishStatus(env orders.Envelope) {
	publishEnvelope(s.Status, env)
}

func publishEnvelope(p *Producer, env orders.Envelope) {
	if p == nil {
		return
	}
	p.Publish(orders.PartitionKey(env.CorrelationID), MustMarshal(env),
		kafka.Header{Key: "x-event-type", Value: []byte(env.EventType)},
		kafka.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
