package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/realrohanroy/parknesting-sub000/internal/platform/cloudevent"
)

// Publisher publishes CloudEvents to a durable topic exchange. The Kafka topic
// name is used as the routing-key prefix, so "booking.events" + "booking.created"
// is routed as "booking.events.booking.created".
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher dials url and declares exchange.
func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange, logger: logger}, nil
}

// RoutingKey returns the routing key used for an event on topic.
func RoutingKey(topic, eventType string) string {
	return topic + "." + eventType
}

// PublishEvent publishes ce as a persistent JSON message.
func (p *Publisher) PublishEvent(ctx context.Context, topic string, ce cloudevent.CloudEvent) error {
	body, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(topic, ce.Type), false, false, amqp.Publishing{
		ContentType:  "application/cloudevents+json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ce.ID,
		Type:         ce.Type,
		Timestamp:    ce.Time,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", ce.Type, err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
