package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage names the milestone an Event reports.
type Stage string

// Supported stages.
const (
	StageRunStart      Stage = "RUN_START"
	StageRunDone       Stage = "RUN_DONE"
	StageRunError      Stage = "RUN_ERROR"
	StageFetchDone     Stage = "FETCH_DONE"
	StageRecipeDone    Stage = "RECIPE_DONE"
	StageRecipeSkipped Stage = "RECIPE_SKIPPED"
)

// StatusClass is a coarse HTTP response grouping.
type StatusClass string

// Status classes recorded on fetch events. StatusFailed marks requests that
// never produced a response.
const (
	Status2xx    StatusClass = "2xx"
	Status3xx    StatusClass = "3xx"
	Status4xx    StatusClass = "4xx"
	Status5xx    StatusClass = "5xx"
	StatusFailed StatusClass = "failed"
)

// Event is a single progress report for one run.
type Event struct {
	RunID uuid.UUID
	TS    time.Time
	Stage Stage
	// Host scopes fetch events; it is derived from URL.
	Host string
	URL  string
	// Bytes is the response body size of a fetch.
	Bytes       int64
	StatusClass StatusClass
	// Dur is the fetch latency, or the run wall time on RUN_DONE/RUN_ERROR.
	Dur time.Duration
	// Note carries short context such as an error message.
	Note string
}

// Validate rejects events a sink could not attribute.
func (e Event) Validate() error {
	if e.RunID == uuid.Nil {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone, StageRunError:
	case StageRecipeDone, StageRecipeSkipped:
		if e.URL == "" {
			return fmt.Errorf("%s requires url", e.Stage)
		}
	case StageFetchDone:
		if e.Host == "" || e.StatusClass == "" {
			return errors.New("fetch done requires host and status class")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// ClassifyStatus groups HTTP status codes. Zero means no response.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code < 300:
		return Status2xx
	case code >= 300 && code < 400:
		return Status3xx
	case code >= 400 && code < 500:
		return Status4xx
	case code >= 500 && code < 600:
		return Status5xx
	default:
		return StatusFailed
	}
}
