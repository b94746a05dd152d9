package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// PublishCatalog publishes ev to the catalog.published queue on the broker
// at url.  Messages are persistent.  Errors are returned so the caller can
// log them; a failed publish never affects serving.
func PublishCatalog(ctx context.Context, url string, ev CatalogPublishedEvent) error {
    conn, err := amqp.Dial(url)
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        CatalogQueueName, // name
        true,             // durable
        false,            // autoDelete
        false,            // exclusive
        false,            // noWait
        nil,              // args
    ); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", CatalogQueueName, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}
