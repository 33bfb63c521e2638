package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/queue"
)

// Publisher hands booking events to the notification pipeline. Callers
// treat a failed publish as non-fatal: the booking write has already
// happened.
type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// NoopPublisher drops every event. It is used when notifications are
// disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, queue.BookingEvent) error { return nil }

const defaultDialTimeout = 2 * time.Second

// AMQPPublisher sends events to a durable RabbitMQ queue, one connection
// per publish. Connecting never outlasts the dial timeout or the caller's
// deadline, so an unreachable broker cannot stall a request.
type AMQPPublisher struct {
	cfg config.AMQPConfig
}

func NewAMQPPublisher(cfg config.AMQPConfig) *AMQPPublisher {
	return &AMQPPublisher{cfg: cfg}
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	timeout, err := dialBudget(ctx, p.cfg.DialTimeout)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
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

	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.MessageID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, msg); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", ev.Type, err)
		return err
	}
	return nil
}

// dialBudget is the time left for connecting: limit (or the default), cut
// short by ctx's deadline. It fails once ctx is done.
func dialBudget(ctx context.Context, limit time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if limit <= 0 {
		limit = defaultDialTimeout
	}
	if dl, ok := ctx.Deadline(); ok {
		left := time.Until(dl)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < limit {
			limit = left
		}
	}
	return limit, nil
}
