package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"tourix/internal/adapters/mail"
	"tourix/internal/adapters/observability"
	"tourix/internal/adapters/rabbit"
	"tourix/internal/domain"
	"tourix/internal/shared"
)

const sendAttempts = 3

func main() {
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer := mail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)

	log.Info().
		Str("queue", rabbit.BookingQueue).
		Int("workers", cfg.NotifyWorkers).
		Msg("notifier starting")

	err := rabbit.Consume(ctx, cfg.AMQPURL, cfg.NotifyWorkers, func(ctx context.Context, ev domain.BookingEvent) error {
		if ev.Email == "" {
			log.Warn().Str("booking", ev.BookingID).Msg("event without recipient, dropping")
			return nil
		}
		subject, body := mail.Render(ev)

		// bounded retries; a terminally failed email is logged and dropped,
		// never pushed back onto the queue
		var lastErr error
		for i := 0; i < sendAttempts; i++ {
			if lastErr = mailer.Send(ctx, ev.Email, subject, body); lastErr == nil {
				log.Info().Str("booking", ev.BookingID).Str("kind", ev.Kind).Msg("email sent")
				return nil
			}
			if i < sendAttempts-1 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(1<<i) * time.Second):
				}
			}
		}
		return lastErr
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer failed")
	}
	log.Info().Msg("notifier stopped")
}
