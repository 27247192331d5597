// Package events publishes payment lifecycle events to a message broker for
// downstream consumers (analytics, notification workers). Publishing is
// fire-and-forget from the request path; this process never consumes.
package events

import (
	"encoding/json"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Queue the billing events are published to.
const BillingEventsQueue = "billing-events"

// Event types.
const (
	EventPaymentActivated = "payment.activated"
	EventPaymentFailed    = "payment.failed"
	EventAccountDeleted   = "account.deleted"
)

// Event is the published payload.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"userId,omitempty"`
	OrderID        string    `json:"orderId,omitempty"`
	PlanID         string    `json:"planId,omitempty"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher emits billing events.
type Publisher interface {
	Publish(event Event) error
	Close() error
}

// rabbitMQPublisher implements Publisher over a RabbitMQ channel.
type rabbitMQPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQPublisher connects to RabbitMQ, opens a channel, and declares
// the durable billing-events queue.
func NewRabbitMQPublisher(url string) (Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		BillingEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &rabbitMQPublisher{conn: conn, channel: ch}, nil
}

// Publish sends the event as a persistent JSON message.
func (p *rabbitMQPublisher) Publish(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.channel.Publish(
		"",                 // exchange
		BillingEventsQueue, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
}

// Close releases the channel and connection.
func (p *rabbitMQPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// noopPublisher drops events; used when no broker is configured.
type noopPublisher struct {
	logger *zap.Logger
}

// NewNoopPublisher returns a Publisher that logs and discards events.
func NewNoopPublisher(logger *zap.Logger) Publisher {
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) Publish(event Event) error {
	if p.logger != nil {
		p.logger.Debug("event publishing disabled, dropping event",
			zap.String("type", event.Type),
			zap.String("orderId", event.OrderID))
	}
	return nil
}

func (p *noopPublisher) Close() error { return nil }
