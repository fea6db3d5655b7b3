package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// defaultPublishTimeout bounds a publish when no timeout is configured.
const defaultPublishTimeout = 5 * time.Second

type Client struct {
	conn           *amqp091.Connection
	channel        *amqp091.Channel
	exchangeName   string
	queueName      string
	publishTimeout time.Duration
}

func NewClient(url, exchangeName, queueName string, publishTimeout time.Duration) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:           conn,
		channel:        channel,
		exchangeName:   exchangeName,
		queueName:      queueName,
		publishTimeout: publishTimeoutOrDefault(publishTimeout),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

// publishTimeoutOrDefault falls back to defaultPublishTimeout for zero or
// negative values.
func publishTimeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultPublishTimeout
	}
	return d
}

func (c *Client) setup() error {
	// Declare exchange
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Declare queue
	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Bind queue to exchange
	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key (same as queue name for direct exchange)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishPaymentRecorded publishes a payment.recorded event.
func (c *Client) PublishPaymentRecorded(ctx context.Context, p PaymentRecorded) error {
	event, err := NewEvent(TypePaymentRecorded, p)
	if err != nil {
		return err
	}
	if err := c.publish(ctx, event); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published payment event",
		"bill_id", p.BillID,
		"amount_cents", p.AmountCents,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// PublishBillDeleted publishes a bill.deleted event.
func (c *Client) PublishBillDeleted(ctx context.Context, billID int64) error {
	event, err := NewEvent(TypeBillDeleted, BillDeleted{BillID: billID})
	if err != nil {
		return err
	}
	if err := c.publish(ctx, event); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published bill deleted event",
		"bill_id", billID,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

func (c *Client) publish(ctx context.Context, event Event) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent, // make message persistent
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Consume delivers ledger events to the handler until ctx is cancelled.
// Handler errors requeue the message; undecodable messages are dropped.
func (c *Client) Consume(ctx context.Context, handler func(Event) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming ledger events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			event, err := EventFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal event", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := handler(event); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event",
					"error", err,
					"type", event.Type)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false) // acknowledge successful processing
			slog.DebugContext(ctx, "Processed ledger event", "type", event.Type)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
