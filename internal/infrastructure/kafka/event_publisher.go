package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/homefinder/loancalc/internal/domain/event"
	"github.com/homefinder/loancalc/internal/domain/port"
	pkgkafka "github.com/homefinder/loancalc/pkg/kafka"
)

var _ port.EventPublisher = (*EventPublisher)(nil)

// DefaultTopic receives every loancalc domain event; consumers filter on the
// event_type header.
const DefaultTopic = "loancalc.events"

// MessageProducer is the subset of *pkgkafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing events to Kafka.
type EventPublisher struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher targeting the given producer and topic.
func NewEventPublisher(producer MessageProducer, topic string, logger *slog.Logger) *EventPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events to Kafka. Events are keyed by
// aggregate id so one calculation's events stay ordered.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		headers := map[string]string{
			"event_type":     evt.EventType(),
			"event_id":       evt.EventID(),
			"aggregate_type": evt.AggregateType(),
		}
		if owner := evt.OwnerID(); owner != "" {
			headers["owner_id"] = owner
		}

		messages = append(messages, pkgkafka.Message{
			Key:     []byte(evt.AggregateID()),
			Value:   payload,
			Headers: headers,
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("publish events to topic %s: %w", p.topic, err)
	}
	return nil
}
