// Package service publishes domain events to RabbitMQ. Publishing is
// fire-and-forget: errors are logged and returned so callers may ignore
// them without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/arlen/devconnector/internal/queue"
)

// Publisher emits activity events to the durable activity queue.
// A Publisher with an empty URL (or any broker failure) degrades to a
// logged no-op so the API keeps serving without RabbitMQ.
type Publisher struct {
	URL string
	Log *slog.Logger
}

func NewPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{URL: url, Log: log}
}

// UserRegistered publishes a user.registered event.
func (p *Publisher) UserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) {
	ev.EventID = uuid.NewString()
	ev.Kind = queue.KindUserRegistered
	ev.At = time.Now().UTC().Format(time.RFC3339)
	p.publish(ctx, ev)
}

// PostCreated publishes a post.created event.
func (p *Publisher) PostCreated(ctx context.Context, ev queue.PostCreatedEvent) {
	ev.EventID = uuid.NewString()
	ev.Kind = queue.KindPostCreated
	ev.At = time.Now().UTC().Format(time.RFC3339)
	p.publish(ctx, ev)
}

func (p *Publisher) publish(ctx context.Context, ev any) {
	if p.URL == "" {
		return
	}
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		p.Log.Warn("rabbitmq dial failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.Log.Warn("rabbitmq channel open failed", "error", err)
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue.QueueName, true, false, false, false, nil); err != nil {
		p.Log.Warn("rabbitmq queue declare failed", "error", err)
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.Log.Warn("event marshal failed", "error", err)
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.QueueName, false, false, pub); err != nil {
		p.Log.Warn("rabbitmq publish failed", "error", err)
	}
}
