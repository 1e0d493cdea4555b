package mailer

import "strings"

// Environment variables holding the mail credentials.
const (
	EnvUser      = "MEAL_PLANNER_EMAIL"
	EnvPassword  = "MEAL_PLANNER_PASS"
	EnvRecipient = "RECIPIENT_EMAIL"
)

// Credentials identify the sending account and the single recipient.
type Credentials struct {
	User      string
	Password  string
	Recipient string
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// CredentialsFromEnv reads the three credential variables. Every missing or
// blank variable is named in the returned *ConfigurationError.
func CredentialsFromEnv(lookup LookupFunc) (Credentials, error) {
	var missing []string
	read := func(key string) string {
		value, ok := lookup(key)
		value = strings.TrimSpace(value)
		if !ok || value == "" {
			missing = append(missing, key)
		}
		return value
	}
	creds := Credentials{
		User:      read(EnvUser),
		Password:  read(EnvPassword),
		Recipient: read(EnvRecipient),
	}
	if len(missing) > 0 {
		return Credentials{}, &ConfigurationError{Missing: missing}
	}
	return creds, nil
}
