package mailer

import (
	"context"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Defaults for the SMTP endpoint.
const (
	DefaultHost    = "smtp.gmail.com"
	DefaultPort    = 465
	DefaultTimeout = 30 * time.Second
)

type smtpTransport struct {
	cfg Config
}

func newSMTPTransport(cfg Config) *smtpTransport {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &smtpTransport{cfg: cfg}
}

func buildMessage(env Envelope) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(env.From); err != nil {
		return nil, &DeliveryError{Op: "from", Err: err}
	}
	if err := msg.To(env.To); err != nil {
		return nil, &DeliveryError{Op: "to", Err: err}
	}
	msg.Subject(env.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, env.Body)
	return msg, nil
}

func (t *smtpTransport) Deliver(ctx context.Context, creds Credentials, env Envelope) error {
	msg, err := buildMessage(env)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(t.cfg.Host,
		gomail.WithPort(t.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(creds.User),
		gomail.WithPassword(creds.Password),
		gomail.WithTimeout(t.cfg.Timeout),
	)
	if err != nil {
		return &DeliveryError{Op: "client", Err: err}
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Op: "send", Err: err}
	}
	return nil
}
