// Package events publishes domain events to a RabbitMQ topic exchange.
// Publishing is best-effort: failures are logged and never fail the caller,
// so notification delivery can lag but booking writes always win.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Routing keys for domain events.
const (
	BookingAccepted  = "booking.accepted"
	BookingDeclined  = "booking.declined"
	BookingCanceled  = "booking.canceled"
	BookingCheckedIn = "booking.checked_in"
	BookingCompleted = "booking.completed"
	DisputeResolved  = "dispute.resolved"
	PayoutCreated    = "payout.created"
)

// Envelope is the wire shape of every published event.
type Envelope struct {
	Event      string `json:"event"`
	Version    int    `json:"version"`
	OccurredAt string `json:"occurred_at"`
	Data       any    `json:"data"`
}

type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      *zap.Logger
}

// NewPublisher connects and declares the topic exchange.
func NewPublisher(amqpURL, exchange string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log.With(zap.String("component", "events")),
	}, nil
}

// Publish sends one event. A nil publisher and publish errors are both
// tolerated; the caller's write has already happened.
func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) {
	if p == nil {
		return
	}

	env := Envelope{
		Event:      routingKey,
		Version:    1,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Data:       data,
	}

	body, err := json.Marshal(env)
	if err != nil {
		p.log.Error("Failed to marshal event", zap.Error(err), zap.String("routing_key", routingKey))
		return
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
		)
		return
	}

	p.log.Debug("Event published", zap.String("routing_key", routingKey))
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
