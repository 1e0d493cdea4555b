package menu

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by run stores for unknown ids.
var ErrRunNotFound = errors.New("run not found")

// FetchError reports a page request that failed or returned a non-success
// status. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// InsufficientRecipesError is returned when the listing page does not link
// enough distinct recipes to fill the week.
type InsufficientRecipesError struct {
	Found    int
	Required int
}

func (e *InsufficientRecipesError) Error() string {
	return fmt.Sprintf("found %d distinct recipe links, need at least %d", e.Found, e.Required)
}
