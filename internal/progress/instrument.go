package progress

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
)

// InstrumentedFetcher traces every request and reports a FETCH_DONE event
// for those made on behalf of a run. Requests whose context carries no run
// id are only traced.
type InstrumentedFetcher struct {
	next    menu.Fetcher
	emitter Emitter
	tracer  trace.Tracer
	now     func() time.Time
}

// InstrumentFetcher wraps next.
func InstrumentFetcher(next menu.Fetcher, emitter Emitter) *InstrumentedFetcher {
	return &InstrumentedFetcher{
		next:    next,
		emitter: emitter,
		tracer:  otel.Tracer("github.com/JakeFAU/weekly-menu-agent/internal/progress"),
		now:     time.Now,
	}
}

// Fetch implements menu.Fetcher.
func (f *InstrumentedFetcher) Fetch(ctx context.Context, req menu.FetchRequest) (menu.FetchResponse, error) {
	ctx, span := f.tracer.Start(ctx, "fetch", trace.WithAttributes(attribute.String("http.url", req.URL)))
	defer span.End()

	start := f.now()
	resp, err := f.next.Fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}

	runID, ok := RunFromContext(ctx)
	if !ok {
		return resp, err
	}
	evt := Event{
		RunID: runID,
		TS:    f.now(),
		Stage: StageFetchDone,
		Host:  hostOf(req.URL),
		URL:   req.URL,
		Dur:   f.now().Sub(start),
	}
	if err != nil {
		status := 0
		var fetchErr *menu.FetchError
		if errors.As(err, &fetchErr) {
			status = fetchErr.StatusCode
		}
		evt.StatusClass = ClassifyStatus(status)
		evt.Note = err.Error()
	} else {
		evt.StatusClass = ClassifyStatus(resp.StatusCode)
		evt.Bytes = int64(len(resp.Body))
	}
	f.emitter.Emit(evt)
	return resp, err
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}

// RecipeObserver reports RECIPE_DONE or RECIPE_SKIPPED for each sampled
// recipe of the run carried by ctx.
func RecipeObserver(emitter Emitter) menu.RecipeObserver {
	return func(ctx context.Context, url string, err error) {
		runID, ok := RunFromContext(ctx)
		if !ok {
			return
		}
		evt := Event{RunID: runID, TS: time.Now(), Stage: StageRecipeDone, URL: url}
		if err != nil {
			evt.Stage = StageRecipeSkipped
			evt.Note = err.Error()
		}
		emitter.Emit(evt)
	}
}
