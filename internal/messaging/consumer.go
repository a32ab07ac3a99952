package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

const handleTimeout = 30 * time.Second

// MessageHandler processes one message body.
type MessageHandler func(ctx context.Context, body []byte) error

type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	consumerTag string
	prefetch    int
}

func NewConsumer(conn *Connection, log *logger.Logger, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming delivers messages to handler until ctx is cancelled. A closed
// delivery channel triggers a reconnect.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		err := c.consume(ctx, handler)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		if !errors.Is(err, errDeliveriesClosed) {
			return err
		}
		c.logger.Error("consumer_channel_closed", "Delivery channel closed, reconnecting", err, nil)
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect after channel closed: %w", err)
		}
	}
}

var errDeliveriesClosed = errors.New("delivery channel closed")

func (c *Consumer) consume(ctx context.Context, handler MessageHandler) error {
	if c.conn.IsClosed() {
		if err := c.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	if err := c.conn.Channel().Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.conn.Channel().Consume(
		c.conn.Queue(), // queue
		c.consumerTag,  // consumer
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("consumer_started", fmt.Sprintf("Started consuming from queue %s", c.conn.Queue()), map[string]interface{}{
		"queue":    c.conn.Queue(),
		"consumer": c.consumerTag,
		"prefetch": c.prefetch,
	})

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopped", "Consumer stopped by context", nil)
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errDeliveriesClosed
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	start := time.Now()

	handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	err := handler(handleCtx, delivery.Body)
	fields := map[string]interface{}{
		"delivery_tag": delivery.DeliveryTag,
		"duration_ms":  time.Since(start).Milliseconds(),
		"message_size": len(delivery.Body),
	}

	if err == nil {
		c.logger.Debug("message_processed", "Message processed", fields)
		if ackErr := delivery.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", ackErr, nil)
		}
		return
	}

	requeue := shouldRequeue(err)
	fields["requeue"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", err, fields)
	if nackErr := delivery.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", nackErr, nil)
	}
}

// shouldRequeue reports whether a failed message may succeed on a later attempt.
// Bad payloads and references to unknown records never will.
func shouldRequeue(err error) bool {
	return !errors.Is(err, models.ErrValidation) && !errors.Is(err, models.ErrNotFound)
}

func (c *Consumer) Close() error {
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	if err := c.conn.Channel().Cancel(c.consumerTag, false); err != nil {
		c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", err, nil)
	}
	return c.conn.Close()
}
