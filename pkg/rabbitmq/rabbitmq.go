package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives every domain event published by the service.
const DefaultQueue = "recipe_events"

// Channel is the subset of *amqp.Channel used by Client.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel Channel
	queue   string
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// Message is the envelope written to the queue.
type Message struct {
	Event      string         `json:"event"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := newClient(ch, cfg.Queue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	client.conn = conn
	return client, nil
}

func newClient(ch Channel, queue string) (*Client, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	slog.Info("RabbitMQ client connected", "queue", queue)
	return &Client{channel: ch, queue: queue}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish writes a persistent JSON message for event to the event queue.
func (c *Client) Publish(ctx context.Context, event string, payload map[string]any) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	body, err := json.Marshal(Message{Event: event, OccurredAt: now, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event, err)
	}

	slog.DebugContext(ctx, "event published", "event", event, "queue", c.queue)
	return nil
}
