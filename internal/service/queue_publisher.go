// Package queue_publisher publishes auth domain events to RabbitMQ.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the request that triggered the event.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/corpai/corp-agent-backend/internal/queue"
)

// PublishUserRegistered publishes to the user.registered queue.
func PublishUserRegistered(ctx context.Context, event q.UserRegisteredEvent) error {
	return publish(ctx, q.UserRegisteredQueue, event)
}

// PublishSubscriptionActivated publishes to the subscription.activated queue.
func PublishSubscriptionActivated(ctx context.Context, event q.SubscriptionActivatedEvent) error {
	return publish(ctx, q.SubscriptionActivatedQueue, event)
}

func publish(ctx context.Context, queueName string, event any) error {
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

	// Idempotent declare; durable so messages survive broker restarts.
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

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
