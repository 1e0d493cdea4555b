package menu

import (
	"net/http"
	"time"
)

// Source describes the site the agent scrapes.
type Source struct {
	// ListingURL is the page enumerating candidate recipes.
	ListingURL string
	// Origin is the scheme and host used to resolve site-relative links.
	Origin string
	// RecipePath is the path prefix every recipe URL starts with.
	RecipePath string
	// StructuredDataID is the id of the element holding the recipe JSON.
	StructuredDataID string
	// IngredientHeading is the substring marking an ingredient heading.
	IngredientHeading string
}

// Recipe is the best-effort extraction of a single recipe page.
type Recipe struct {
	Name        string
	Ingredients []string
}

// MenuEntry assigns one recipe to a weekday slot.
type MenuEntry struct {
	RecipeName string `json:"recipe_name"`
	URL        string `json:"url"`
}

// RecipeFailure records a sampled recipe that could not be used.
type RecipeFailure struct {
	URL string
	Err error
}

// Plan is the outcome of one menu build.
type Plan struct {
	// Candidates is the number of distinct recipe links discovered.
	Candidates   int
	Entries      []MenuEntry
	ShoppingList []string
	Failures     []RecipeFailure
}

// Trigger identifies what started a run.
type Trigger string

// Run triggers.
const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// RunStatus represents the lifecycle state of a run.
type RunStatus string

// Run status values kept in the run store.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the in-memory record of one end-to-end job execution. It carries
// counters only, never menu content.
type Run struct {
	ID         string     `json:"id"`
	Trigger    Trigger    `json:"trigger"`
	Status     RunStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Candidates int        `json:"candidates"`
	Recipes    int        `json:"recipes"`
	Skipped    int        `json:"skipped"`
	Items      int        `json:"items"`
	BodyDigest string     `json:"body_digest,omitempty"`
	ErrorText  string     `json:"error_text,omitempty"`
}

// RunSummary is the notification published once a run finishes.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Trigger    Trigger   `json:"trigger"`
	Status     RunStatus `json:"status"`
	FinishedAt time.Time `json:"finished_at"`
	Recipes    int       `json:"recipes"`
	Skipped    int       `json:"skipped"`
	Items      int       `json:"items"`
	BodyDigest string    `json:"body_digest,omitempty"`
	ErrorText  string    `json:"error_text,omitempty"`
}

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}
