package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "gopkg.in/mail.v2"
)

const smtpTimeout = 10 * time.Second

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Email delivers alerts over SMTP with an HTML body and a plain text
// alternative.
type Email struct {
	cfg    EmailConfig
	dialer *gomail.Dialer
}

func NewEmail(cfg EmailConfig) *Email {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.Timeout = smtpTimeout

	return &Email{
		cfg:    cfg,
		dialer: dialer,
	}
}

func (*Email) Channel() string {
	return "email"
}

func (e *Email) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.dialer.DialAndSend(e.compose(msg)); err != nil {
		return fmt.Errorf("dialer.DialAndSend: %w", err)
	}

	return nil
}

func (e *Email) compose(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", e.cfg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", htmlBody(msg.HTML))

	return m
}

func htmlBody(s string) string {
	return strings.ReplaceAll(s, "\n", "<br>")
}
