package mail

import (
	"context"
	"crypto/tls"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/Guruganeshkannan/Afterlife/internal/config"
)

var _ Sender = (*SMTPSender)(nil)

// SMTPSender sends email through an SMTP server using gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.SSL
	if cfg.SkipVerifyTLS {
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}

	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}

	return &SMTPSender{dialer: dialer, from: from}
}

// Send dials the SMTP server and delivers one message with a plain-text body
// and an HTML alternative. The context is honored up front; gomail itself
// has no context support, so an in-flight send runs to completion.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
