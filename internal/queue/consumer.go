package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// Consumer appends every catalog snapshot it receives to
// <LogDir>/catalog.log, one human-friendly line per event.
type Consumer struct {
    URL    string
    LogDir string
    Log    logrus.FieldLogger
}

// Run connects to the broker and consumes until ctx is cancelled.  Lost
// connections are re-dialled with exponential backoff capped at 30s.
// Messages that cannot be handled are rejected without requeue so a
// poison message cannot spin the consumer.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.WithError(err).Warnf("catalog-consumer: dial failed; retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.WithError(err).Warn("catalog-consumer: consume loop ended; reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(10, 0, false); err != nil {
        c.Log.WithError(err).Warn("catalog-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(CatalogQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(CatalogQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                c.Log.WithError(err).Error("catalog-consumer: handle message failed")
                _ = d.Nack(false, false)
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev CatalogPublishedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.LogDir, "catalog.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

func formatLine(ev CatalogPublishedEvent) string {
    coins := make([]string, 0, len(ev.Coins))
    for _, p := range ev.Coins {
        coins = append(coins, p.ID)
    }
    accounts := make([]string, 0, len(ev.Accounts))
    for _, a := range ev.Accounts {
        accounts = append(accounts, a.ID)
    }
    return fmt.Sprintf("[%s] Catalog published | source=%q | currency=%s | coins=[%s] | accounts=[%s]\n",
        ev.PublishedAt, ev.Source, ev.Currency, strings.Join(coins, ","), strings.Join(accounts, ","))
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
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
