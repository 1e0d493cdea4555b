package mailer

import (
	"fmt"
	"strings"
)

// ConfigurationError lists the environment variables that were missing or
// empty when a send was attempted.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing mail configuration: %s", strings.Join(e.Missing, ", "))
}

// DeliveryError wraps a failure talking to the SMTP server. Op names the
// step that failed.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("smtp %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
