// Package mailer delivers the weekly menu over SMTP with implicit TLS.
package mailer

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
)

// Config describes the SMTP endpoint.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// Envelope is one outgoing plain-text message.
type Envelope struct {
	From    string
	To      string
	Subject string
	Body    string
}

// transport submits a message. It is swapped out in tests.
type transport interface {
	Deliver(ctx context.Context, creds Credentials, env Envelope) error
}

// Mailer implements menu.Sender. Credentials are read from the environment
// on every send so a rotated password does not need a restart.
type Mailer struct {
	transport transport
	lookup    LookupFunc
	logger    *zap.Logger
}

// Option customizes a Mailer.
type Option func(*Mailer)

// WithLookup replaces os.LookupEnv as the credential source.
func WithLookup(lookup LookupFunc) Option {
	return func(m *Mailer) {
		m.lookup = lookup
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Mailer) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New builds a Mailer for the given SMTP endpoint.
func New(cfg Config, opts ...Option) *Mailer {
	m := &Mailer{
		transport: newSMTPTransport(cfg),
		lookup:    os.LookupEnv,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send mails body to the configured recipient. Missing credentials fail with
// *ConfigurationError before any connection is opened; SMTP failures are
// returned as *DeliveryError.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	creds, err := CredentialsFromEnv(m.lookup)
	if err != nil {
		return err
	}
	env := Envelope{
		From:    creds.User,
		To:      creds.Recipient,
		Subject: subject,
		Body:    body,
	}
	if err := m.transport.Deliver(ctx, creds, env); err != nil {
		return err
	}
	m.logger.Info("menu email sent", zap.String("to", creds.Recipient), zap.Int("bytes", len(body)))
	return nil
}
