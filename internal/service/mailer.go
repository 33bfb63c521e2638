package service

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/queue"
)

// Mailer sends booking e-mails over SMTP. Without SMTP settings it logs the
// mail instead of sending it.
type Mailer struct {
	cfg  config.MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Notify implements queue.Notifier.
func (m *Mailer) Notify(_ context.Context, ev queue.BookingEvent) error {
	return m.Send(ev.CustomerEmail, ev.Subject(), ev.Body())
}

// Send delivers a plain text mail.
func (m *Mailer) Send(to, subject, body string) error {
	to = headerSafe(to)
	subject = headerSafe(subject)
	if !m.cfg.Configured() {
		log.Printf("[MOCK EMAIL] to:%s subject:%q", to, subject)
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s <%s>\r\n", headerSafe(m.cfg.FromName), m.cfg.Username)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := m.send(addr, auth, m.cfg.Username, []string{to}, []byte(sb.String())); err != nil {
		log.Printf("mail: send to %s failed: %v", to, err)
		return err
	}
	log.Printf("mail: sent %q to %s", subject, to)
	return nil
}

// headerSafe strips line breaks so a value cannot inject extra headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s))
}
