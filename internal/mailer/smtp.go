package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"
	"github.com/lgsbc-git/lgstech-backend/internal/domain"
)

// dialer is satisfied by *mail.Dialer.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPSender delivers mail through an authenticated SMTP account. Port 587
// upgrades with STARTTLS.
type SMTPSender struct {
	dialer dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	d := mail.NewDialer(host, port, username, password)
	d.TLSConfig = &tls.Config{ServerName: host}

	return &SMTPSender{
		dialer: d,
		from:   username,
	}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return fmt.Errorf("sending to %s via smtp: %w: %w", msg.To, domain.ErrNotificationFailure, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) *mail.Message {
	m := mail.NewMessage()
	m.SetAddressHeader("From", s.from, msg.FromName)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(s.from)))
	m.SetBody("text/html", msg.HTML)
	return m
}

func senderDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 && i < len(addr)-1 {
		return addr[i+1:]
	}
	return "localhost"
}
