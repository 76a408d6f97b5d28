// Package mail delivers plain-text messages.
package mail

import (
	"context"
	"fmt"

	"pinshop/internal/platform/logging"

	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	from   string
	dialer dialer
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{from: from, dialer: gomail.NewDialer(host, port, user, pass)}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer writes the envelope to the log instead of sending it. The body
// is left out since it carries credentials.
type LogMailer struct {
	log logging.Logger
}

func NewLogMailer(log logging.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info(ctx, "mail not sent, no SMTP relay configured", "to", msg.To, "subject", msg.Subject)
	return nil
}
