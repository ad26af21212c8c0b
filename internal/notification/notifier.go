// Package notification dispatches fire-and-forget user events. Failures are
// logged and swallowed: notifications are best-effort UX, never a
// correctness requirement, so they must not affect a committed order.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Event types published by the ordering flow.
const (
	EventOrderCreated       = "order_created"
	EventOrderCancelled     = "order_cancelled"
	EventOrderStatusUpdated = "order_status_updated"
	EventPaymentInitiated   = "payment_initiated"
	EventPaymentCompleted   = "payment_completed"
	EventPaymentFailed      = "payment_failed"
)

// Notifier dispatches an event to a user. Implementations must never let a
// failure escape this boundary.
type Notifier interface {
	Notify(ctx context.Context, eventType string, userID uuid.UUID, payload map[string]any)
}

// envelope is the published message body.
type envelope struct {
	EventType string         `json:"event_type"`
	UserID    uuid.UUID      `json:"user_id"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publisher is a RabbitMQ-backed Notifier publishing to a fanout exchange.
type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

// NewPublisher dials RabbitMQ and declares the fanout exchange.
func NewPublisher(url, exchange string, logger zerolog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger.With().Str("component", "notifier").Logger(),
	}, nil
}

// Notify publishes the event to the fanout exchange. Every failure is
// logged and dropped.
func (p *Publisher) Notify(ctx context.Context, eventType string, userID uuid.UUID, payload map[string]any) {
	body, err := json.Marshal(envelope{
		EventType: eventType,
		UserID:    userID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal notification")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		"", // fanout ignores routing keys
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("user_id", userID.String()).
			Msg("failed to publish notification")
		return
	}

	p.logger.Debug().
		Str("event_type", eventType).
		Str("user_id", userID.String()).
		Msg("notification published")
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return p.conn.Close()
}

// Nop is a Notifier that drops every event. Used in tests and when the
// broker is disabled.
type Nop struct{}

func (Nop) Notify(context.Context, string, uuid.UUID, map[string]any) {}
