package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Broker carries events between API instances and notification workers
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	// Consume starts delivering events to handler until ctx ends. handler returns
	// false when it could not take the event, which is then requeued.
	Consume(ctx context.Context, handler func(ctx context.Context, ev Event) bool) error
	Close() error
}

// RabbitMQBroker is a Broker on a durable RabbitMQ queue
type RabbitMQBroker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  zerolog.Logger
}

// NewRabbitMQBroker connects to url and declares the durable queue
func NewRabbitMQBroker(url, queueName string, logger zerolog.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logger.Info().Str("queue", q.Name).Msg("Connected to RabbitMQ")
	return &RabbitMQBroker{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Publish implements Broker
func (r *RabbitMQBroker) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

// Consume implements Broker. Deliveries are acknowledged once a worker has taken them.
func (r *RabbitMQBroker) Consume(ctx context.Context, handler func(ctx context.Context, ev Event) bool) error {
	msgs, err := r.channel.Consume(
		r.queue.Name,
		"",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					r.logger.Warn().Msg("RabbitMQ delivery channel closed")
					return
				}
				var ev Event
				if err := json.Unmarshal(d.Body, &ev); err != nil {
					r.logger.Error().Err(err).Msg("Invalid notification payload, discarding")
					_ = d.Nack(false, false)
					continue
				}
				if handler(ctx, ev) {
					_ = d.Ack(false)
				} else {
					_ = d.Nack(false, true)
				}
			}
		}
	}()
	return nil
}

// Close implements Broker
func (r *RabbitMQBroker) Close() error {
	if err := r.channel.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
