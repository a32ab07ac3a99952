// Package messaging consumes orders placed through external channels from RabbitMQ.
package messaging

import (
	"fmt"
	"time"

	"soufra_admin/internal/logger"

	"github.com/rabbitmq/amqp091-go"
)

const maxDialAttempts = 5

// Connection wraps a RabbitMQ connection and the channel the queue is declared on.
type Connection struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *logger.Logger
	url     string
	queue   string
}

func New(url, queue string, log *logger.Logger) (*Connection, error) {
	c := &Connection{logger: log, url: url, queue: queue}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect() error {
	var err error
	for i := 0; i < maxDialAttempts; i++ {
		if err = c.dial(); err == nil {
			return nil
		}
		if i < maxDialAttempts-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", wait), err, nil)
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxDialAttempts, err)
}

func (c *Connection) dial() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if _, err := channel.QueueDeclare(
		c.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", c.queue, err)
	}
	c.conn, c.channel = conn, channel
	return nil
}

func (c *Connection) Channel() *amqp091.Channel {
	return c.channel
}

func (c *Connection) Queue() string {
	return c.queue
}

func (c *Connection) IsClosed() bool {
	return c.conn == nil || c.conn.IsClosed()
}

func (c *Connection) Reconnect() error {
	c.Close()
	return c.connect()
}

func (c *Connection) Close() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
