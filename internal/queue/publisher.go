package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher emits ResourceEvents to a durable queue. Publication is strictly
// best-effort: any broker failure is logged and swallowed so a dead broker
// never turns a successful database write into a client-facing error.
// A nil Publisher is valid and publishes nothing.
type Publisher struct {
	url   string
	queue string
	log   *logrus.Entry
}

// NewPublisher returns a Publisher, or nil when no broker URL is configured.
func NewPublisher(url, queueName string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{
		url:   url,
		queue: queueName,
		log:   logrus.WithField("component", "events"),
	}
}

// Publish sends one event. Safe to call on a nil receiver.
func (p *Publisher) Publish(ctx context.Context, ev ResourceEvent) {
	if p == nil {
		return
	}
	if err := p.publish(ctx, ev); err != nil {
		p.log.WithError(err).Warn("event publish failed")
	}
}

func (p *Publisher) publish(ctx context.Context, ev ResourceEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
}
