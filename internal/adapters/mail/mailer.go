// Package mail renders and sends booking emails over SMTP. No pack service
// here needs more than plain submission with AUTH, so the stdlib client is
// used directly.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"tourix/internal/adapters/observability"
	"tourix/internal/domain"
)

type Mailer struct {
	addr string
	host string
	auth smtp.Auth
	from string
}

func New(host string, port int, username, password, from string) *Mailer {
	m := &Mailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		host: host,
		from: from,
	}
	if username != "" {
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	start := time.Now()
	err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String()))
	status := 0
	if err == nil {
		status = 250
	}
	observability.ObserveExternal("smtp", "send", status, time.Since(start))
	return err
}

// Render builds the subject and HTML body for a booking event.
func Render(ev domain.BookingEvent) (subject, body string) {
	if ev.Kind == domain.EventBookingCancelled {
		return "Booking Cancellation Confirmation", cancellationBody(ev)
	}
	return "Booking Confirmation", confirmationBody(ev)
}

const dateLayout = "Mon, 02 Jan 2006"

func confirmationBody(ev domain.BookingEvent) string {
	return fmt.Sprintf(`<h2>Booking Confirmation</h2>
<p>Dear %s,</p>
<p>Thank you for your booking. Here are the details:</p>
<ul>
  <li><strong>Booking ID</strong>: %s</li>
  <li><strong>Hotel</strong>: %s</li>
  <li><strong>Room Type</strong>: %s</li>
  <li><strong>Location</strong>: %s</li>
  <li><strong>Check-in Date</strong>: %s</li>
  <li><strong>Check-out Date</strong>: %s</li>
  <li><strong>Booking Amount</strong>: %s</li>
</ul>
<p>We look forward to welcoming you!</p>
<p>Best regards,<br/>The Tourix Team</p>`,
		ev.Username, ev.BookingID, ev.HotelName, ev.RoomType, ev.HotelAddress,
		ev.CheckIn.Format(dateLayout), ev.CheckOut.Format(dateLayout),
		formatAmount(ev.TotalPrice))
}

func cancellationBody(ev domain.BookingEvent) string {
	return fmt.Sprintf(`<h2>Booking Cancelled</h2>
<p>Dear %s,</p>
<p>Your booking has been successfully cancelled. Below are the cancelled booking details:</p>
<ul>
  <li><strong>Booking ID</strong>: %s</li>
  <li><strong>Hotel</strong>: %s</li>
  <li><strong>Room Type</strong>: %s</li>
  <li><strong>Check-in</strong>: %s</li>
  <li><strong>Check-out</strong>: %s</li>
  <li><strong>Total Amount</strong>: %s</li>
</ul>
<p>We hope to assist you with another stay in the future.</p>
<p>Best regards,<br/>The Tourix Team</p>`,
		ev.Username, ev.BookingID, ev.HotelName, ev.RoomType,
		ev.CheckIn.Format(dateLayout), ev.CheckOut.Format(dateLayout),
		formatAmount(ev.TotalPrice))
}

// formatAmount renders minor units as a dollar string, e.g. 30000 -> $300.00.
func formatAmount(minor int64) string {
	return fmt.Sprintf("$%d.%02d", minor/100, minor%100)
}
