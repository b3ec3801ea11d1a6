package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes events to RabbitMQ queues named after the topic.
// Connections are short-lived: each publish dials, declares the queue
// (idempotent) and closes. Events here are advisory, so the simplicity of a
// connection per publish beats keeping a channel healthy across restarts.
type AMQPPublisher struct {
	url string
}

// NewAMQPPublisher creates a publisher for the given broker URL.
func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url}
}

// Publish sends the payload as a persistent JSON message to the topic queue.
// Errors are logged and returned; callers are expected to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, topic string, payload any) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("notify: dial failed: %v", err)
		return fmt.Errorf("notify dial failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("notify: channel open failed: %v", err)
		return fmt.Errorf("notify channel failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		log.Printf("notify: queue declare failed: %v", err)
		return fmt.Errorf("notify queue declare failed: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("notify: marshal payload failed: %v", err)
		return fmt.Errorf("notify marshal failed: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", topic, false, false, pub); err != nil {
		log.Printf("notify: publish to %s failed: %v", topic, err)
		return fmt.Errorf("notify publish failed: %w", err)
	}

	return nil
}
