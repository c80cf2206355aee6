package rabbit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"tourix/internal/adapters/observability"
	"tourix/internal/domain"
)

// BookingQueue is the durable queue carrying booking lifecycle events from
// the API to the notifier.
const BookingQueue = "booking.events"

// Publisher holds one AMQP connection and channel, re-dialing lazily after
// failures. Messages are persistent so they survive broker restarts.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

func (p *Publisher) PublishBookingEvent(ctx context.Context, ev domain.BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	err = p.publishLocked(ctx, body)
	if err != nil {
		// one reconnect attempt; the broker may have dropped the channel
		p.closeLocked()
		err = p.publishLocked(ctx, body)
	}
	status := 0
	if err == nil {
		status = 200
	}
	observability.ObserveExternal("amqp", BookingQueue, status, time.Since(start))
	return err
}

func (p *Publisher) publishLocked(ctx context.Context, body []byte) error {
	if err := p.ensureChannelLocked(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",           // default exchange
		BookingQueue, // routing key = queue name
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *Publisher) ensureChannelLocked() error {
	if p.ch != nil && !p.conn.IsClosed() {
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}
