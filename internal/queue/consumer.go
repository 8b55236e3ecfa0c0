package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "log/slog"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

// Log files written by the consumer, relative to its directory.
const (
    AuditLogFile  = "maintenance-audit.log"
    FlightLogFile = "flights.log"
)

// StartConsumer connects to RabbitMQ, declares the flight and audit queues
// (durable) and appends every message to a log file under dir: audit
// entries to maintenance-audit.log, flight changes to flights.log.  It
// reconnects with backoff until ctx is cancelled, then returns ctx.Err().
// Undecodable messages are logged and rejected without requeue.
func StartConsumer(ctx context.Context, url, dir string, logger *slog.Logger) error {
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            logger.Warn("consumer: dial broker failed", "err", err, "retry_in", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect
        logger.Info("consumer: connected", "queues", []string{FlightQueue, AuditQueue}, "dir", dir)

        err = consumeLoop(ctx, conn, dir, logger)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        logger.Warn("consumer: consume loop ended; reconnecting", "err", err)
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, dir string, logger *slog.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.Warn("consumer: set QoS failed", "err", err)
    }

    flights, err := subscribe(ch, FlightQueue)
    if err != nil {
        return err
    }
    audits, err := subscribe(ch, AuditQueue)
    if err != nil {
        return err
    }

    for {
        var (
            d     amqp.Delivery
            ok    bool
            queue string
        )
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok = <-flights:
            queue = FlightQueue
        case d, ok = <-audits:
            queue = AuditQueue
        }
        if !ok {
            return errors.New("deliveries channel closed")
        }
        if err := handleMessage(dir, queue, d.Body); err != nil {
            logger.Error("consumer: handle message failed", "queue", queue, "err", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
}

func subscribe(ch *amqp.Channel, name string) (<-chan amqp.Delivery, error) {
    if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
        return nil, fmt.Errorf("queue declare %s: %w", name, err)
    }
    msgs, err := ch.Consume(name, "", false, false, false, false, nil)
    if err != nil {
        return nil, fmt.Errorf("queue consume %s: %w", name, err)
    }
    return msgs, nil
}

// handleMessage decodes body according to its queue and appends the
// rendered line to the matching file in dir.
func handleMessage(dir, queue string, body []byte) error {
    var (
        file string
        line string
    )
    switch queue {
    case AuditQueue:
        var ev MaintenanceAuditEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        if ev.Line == "" {
            return errors.New("audit event without line")
        }
        file, line = AuditLogFile, ev.Line
    case FlightQueue:
        var ev FlightChangedEvent
        if err := json.Unmarshal(body, &ev); err != nil {
            return fmt.Errorf("unmarshal: %w", err)
        }
        file, line = FlightLogFile, ev.Line()
    default:
        return fmt.Errorf("unknown queue %q", queue)
    }

    f, err := os.OpenFile(filepath.Join(dir, file), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    if _, err := f.WriteString(line + "\n"); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
