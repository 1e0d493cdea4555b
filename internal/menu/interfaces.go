package menu

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata. Implementations
// return a *FetchError for transport failures and non-2xx responses.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Sender delivers the composed email.
type Sender interface {
	Send(ctx context.Context, subject, body string) error
}

// Publisher pushes run summaries to downstream consumers.
type Publisher interface {
	PublishRun(ctx context.Context, summary RunSummary) (string, error)
}

// Hasher computes digests of rendered content.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// RunStore keeps the recent run history shown on the ops surface.
type RunStore interface {
	CreateRun(ctx context.Context, run Run) error
	UpdateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
