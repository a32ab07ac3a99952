package messaging

import (
	"context"
	"fmt"
	"time"

	"soufra_admin/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher puts raw order messages on the queue, for kiosks and for replaying
// orders from the command line.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log}
}

func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := p.conn.Channel().PublishWithContext(ctx,
		"",             // default exchange
		p.conn.Queue(), // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.conn.Queue(), err)
	}

	p.logger.Debug("message_published", "Order message published", map[string]interface{}{
		"queue":        p.conn.Queue(),
		"message_size": len(body),
	})
	return nil
}
