// Package queue_publisher publishes domain events to RabbitMQ. Errors
// are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/lukbre/ticketline/internal/queue"
)

// PublishOrderCompleted publishes an OrderCompletedEvent to the
// "order.completed" queue.
func PublishOrderCompleted(ctx context.Context, event q.OrderCompletedEvent) error {
	return publishJSON(ctx, "order.completed", event)
}

// PublishReservationCreated publishes a ReservationCreatedEvent to the
// "reservation.created" queue.
func PublishReservationCreated(ctx context.Context, event q.ReservationCreatedEvent) error {
	return publishJSON(ctx, "reservation.created", event)
}

// publishJSON opens a short-lived connection, declares the durable queue
// and publishes one persistent JSON message on the default exchange.
func publishJSON(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare. Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
