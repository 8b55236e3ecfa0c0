// Package service publishes scheduling events to RabbitMQ.  Errors are
// returned to the caller, which logs them with the flight or record they
// belong to.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/fleet-scheduling/internal/model"
    q "github.com/iliyamo/fleet-scheduling/internal/queue"
    "github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

// Publisher implements scheduling.EventPublisher over RabbitMQ.  Each
// publish dials, declares the durable queue and sends one persistent
// message.
type Publisher struct {
    url string
    now func() time.Time
}

var _ scheduling.EventPublisher = (*Publisher)(nil)

func NewPublisher(url string) *Publisher {
    return &Publisher{url: url, now: time.Now}
}

func (p *Publisher) PublishFlightChange(ctx context.Context, action model.AuditAction, f model.FlightView) error {
    return p.publish(ctx, q.FlightQueue, q.NewFlightChangedEvent(action, f, p.now()))
}

func (p *Publisher) PublishMaintenanceAudit(ctx context.Context, e model.MaintenanceAuditEntry) error {
    return p.publish(ctx, q.AuditQueue, q.NewMaintenanceAuditEvent(e))
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal %s event: %w", queue, err)
    }

    conn, err := amqp.Dial(p.url)
    if err != nil {
        return fmt.Errorf("rabbitmq: dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq: open channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("rabbitmq: declare queue %s: %w", queue, err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    p.now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq: publish to %s: %w", queue, err)
    }
    return nil
}
