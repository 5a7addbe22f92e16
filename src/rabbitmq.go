package main

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publishTimeout bounds how long a single publish may block when the
// broker stops accepting writes.
const publishTimeout = 5 * time.Second

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Queue    string
}

// URL builds the broker URL the amqp client dials.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.Username, c.Password, c.Host, c.Port)
}

// RowPublisher mirrors extracted CSV rows onto a RabbitMQ queue so a
// downstream consumer can pick up tweets as they are converted.
type RowPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	config  RabbitMQConfig
	sent    int
}

// NewRowPublisher connects to RabbitMQ and declares the target queue.
func NewRowPublisher(config RabbitMQConfig) (*RowPublisher, error) {
	// Connect to RabbitMQ
	conn, err := amqp.Dial(config.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Create channel
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare queue
	q, err := ch.QueueDeclare(
		config.Queue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RowPublisher{
		conn:    conn,
		channel: ch,
		queue:   q,
		config:  config,
	}, nil
}

// Publish sends one CSV row line to the queue. Rows are marked
// persistent so they survive a broker restart alongside the durable
// queue.
func (p *RowPublisher) Publish(line string) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(ctx,
		"",           // exchange
		p.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "text/csv",
			DeliveryMode: amqp.Persistent,
			Body:         []byte(line),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish row: %w", err)
	}
	p.sent++
	return nil
}

// Sent returns the number of rows published so far.
func (p *RowPublisher) Sent() int {
	return p.sent
}

// Close closes the RabbitMQ channel and connection.
func (p *RowPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
