package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tourix/internal/domain"
)

// HandleFunc processes one booking event. Returning an error rejects the
// delivery without requeue; the event is dropped after logging.
type HandleFunc func(ctx context.Context, ev domain.BookingEvent) error

// Consume connects to the broker, declares the booking queue and dispatches
// deliveries to handle through a worker pool bounded by workers. It runs a
// reconnect loop with capped backoff and returns only when ctx is done.
func Consume(ctx context.Context, url string, workers int, handle HandleFunc) error {
	if workers <= 0 {
		workers = 4
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}

		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("amqp dial failed")
			if !sleepCtx(ctx, backoff) {
				wg.Wait()
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, sem, &wg, handle); err != nil {
			log.Warn().Err(err).Msg("amqp consume loop ended; reconnecting")
		}
		_ = conn.Close()
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sem *semaphore.Weighted, wg *sync.WaitGroup, handle HandleFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("amqp set QoS failed")
	}
	if _, err := ch.QueueDeclare(BookingQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(BookingQueue, "", false, false, false, false, nil)
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
			if err := sem.Acquire(ctx, 1); err != nil {
				_ = d.Nack(false, true) // requeue; we are shutting down
				return err
			}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer sem.Release(1)
				dispatch(ctx, d, handle)
			}(d)
		}
	}
}

func dispatch(ctx context.Context, d amqp.Delivery, handle HandleFunc) {
	var ev domain.BookingEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Error().Err(err).Msg("booking event unmarshal failed")
		_ = d.Nack(false, false) // malformed; do not requeue
		return
	}
	if err := handle(ctx, ev); err != nil {
		log.Error().Err(err).Str("booking", ev.BookingID).Str("kind", ev.Kind).Msg("booking event handling failed")
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	_ = d.Ack(false)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
