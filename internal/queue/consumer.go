package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/restaurant-booking/internal/config"
)

// Notifier delivers an event to the guest.
type Notifier interface {
	Notify(ctx context.Context, ev BookingEvent) error
}

// Consumer appends every event to a journal file and hands it to a Notifier.
type Consumer struct {
	notifier Notifier
	journal  string
}

func NewConsumer(notifier Notifier, journal string) *Consumer {
	return &Consumer{notifier: notifier, journal: journal}
}

// StartNotificationConsumer dials the broker and consumes cfg.Queue until
// ctx is cancelled, reconnecting with exponential backoff.
func StartNotificationConsumer(ctx context.Context, cfg config.AMQPConfig, notifier Notifier, journal string) {
	c := NewConsumer(notifier, journal)
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Printf("notification-consumer: dial failed: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn, cfg.Queue)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return
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

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection, queue string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
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
			if err := c.HandleMessage(ctx, d.Body); err != nil {
				log.Printf("notification-consumer: message_id=%s failed: %v", d.MessageId, err)
				// not requeued, a poison message would spin forever
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage journals the event and then notifies the guest. A mail
// failure is logged but does not reject the message once it is journaled.
func (c *Consumer) HandleMessage(ctx context.Context, body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := c.appendJournal(ev); err != nil {
		return err
	}
	if c.notifier == nil || ev.CustomerEmail == "" {
		return nil
	}
	if err := c.notifier.Notify(ctx, ev); err != nil {
		log.Printf("notification-consumer: notify booking_id=%d: %v", ev.BookingID, err)
	}
	return nil
}

func (c *Consumer) appendJournal(ev BookingEvent) error {
	if c.journal == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.journal), 0o755); err != nil {
		return fmt.Errorf("mkdir journal dir: %w", err)
	}
	f, err := os.OpenFile(c.journal, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(ev.LogLine()); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}
