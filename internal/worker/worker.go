// Package worker runs the weekly menu job end to end.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/weekly-menu-agent/internal/mailer"
	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
	"github.com/JakeFAU/weekly-menu-agent/internal/progress"
)

const tracerName = "github.com/JakeFAU/weekly-menu-agent/internal/worker"

// DefaultSubject is the email subject used when none is configured.
const DefaultSubject = "Weekly menu"

// Config controls what the worker sends.
type Config struct {
	Subject  string
	Weekdays []string
}

// PlanBuilder produces the week's plan.
type PlanBuilder interface {
	Build(ctx context.Context) (menu.Plan, error)
}

// IDGenerator produces run ids.
type IDGenerator interface {
	NewRawID() (uuid.UUID, error)
}

// Worker executes one run at a time: build the plan, compose the email,
// send it, then record and announce the outcome. Run never returns an
// error; failures end up in the run record and the logs.
type Worker struct {
	builder   PlanBuilder
	sender    menu.Sender
	runs      menu.RunStore
	publisher menu.Publisher
	hasher    menu.Hasher
	clock     menu.Clock
	ids       IDGenerator
	emitter   progress.Emitter
	tracer    trace.Tracer
	cfg       Config
	logger    *zap.Logger
}

// Deps groups the collaborators of a Worker. Publisher, Emitter and Tracer
// are optional; Tracer defaults to the global provider.
type Deps struct {
	Builder   PlanBuilder
	Sender    menu.Sender
	Runs      menu.RunStore
	Publisher menu.Publisher
	Hasher    menu.Hasher
	Clock     menu.Clock
	IDs       IDGenerator
	Emitter   progress.Emitter
	Tracer    trace.Tracer
}

// New constructs a Worker.
func New(deps Deps, cfg Config, logger *zap.Logger) *Worker {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if len(cfg.Weekdays) == 0 {
		cfg.Weekdays = menu.DefaultWeekdays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	emitter := deps.Emitter
	if emitter == nil {
		emitter = progress.NopEmitter{}
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Worker{
		builder:   deps.Builder,
		sender:    deps.Sender,
		runs:      deps.Runs,
		publisher: deps.Publisher,
		hasher:    deps.Hasher,
		clock:     deps.Clock,
		ids:       deps.IDs,
		emitter:   emitter,
		tracer:    tracer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run executes the job once and returns the finished run record.
func (w *Worker) Run(ctx context.Context, trigger menu.Trigger) menu.Run {
	runID, err := w.ids.NewRawID()
	if err != nil {
		// A run id is only needed for bookkeeping.
		w.logger.Warn("run id generation failed", zap.Error(err))
		runID = uuid.New()
	}
	run := menu.Run{
		ID:        runID.String(),
		Trigger:   trigger,
		Status:    menu.RunStatusRunning,
		StartedAt: w.clock.Now(),
	}
	logger := w.logger.With(zap.String("run_id", run.ID), zap.String("trigger", string(trigger)))
	if err := w.runs.CreateRun(ctx, run); err != nil {
		logger.Warn("record run start failed", zap.Error(err))
	}
	ctx = progress.ContextWithRun(ctx, runID)
	ctx, span := w.tracer.Start(ctx, "menu.run", trace.WithAttributes(
		attribute.String("menu.run_id", run.ID),
		attribute.String("menu.trigger", string(trigger)),
	))
	defer span.End()
	w.emit(runID, progress.StageRunStart, 0, "")
	logger.Info("menu run started")

	err = w.execute(ctx, &run, logger)
	return w.finish(ctx, runID, run, err, logger)
}

func (w *Worker) execute(ctx context.Context, run *menu.Run, logger *zap.Logger) error {
	plan, err := w.builder.Build(ctx)
	if err != nil {
		return err
	}
	run.Candidates = plan.Candidates
	run.Recipes = len(plan.Entries)
	run.Skipped = len(plan.Failures)
	run.Items = len(plan.ShoppingList)
	if run.Recipes == 0 {
		logger.Warn("every sampled recipe failed, sending an empty menu")
	}

	body := menu.ComposeEmail(plan.Entries, plan.ShoppingList, w.cfg.Weekdays)
	if digest, err := w.hasher.Hash([]byte(body)); err == nil {
		run.BodyDigest = digest
	}
	return w.sender.Send(ctx, w.cfg.Subject, body)
}

func (w *Worker) finish(ctx context.Context, runID uuid.UUID, run menu.Run, runErr error, logger *zap.Logger) menu.Run {
	finished := w.clock.Now()
	run.FinishedAt = &finished
	elapsed := finished.Sub(run.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	if runErr != nil {
		run.Status = menu.RunStatusFailed
		run.ErrorText = runErr.Error()
		logger.Error("menu run failed",
			zap.String("reason", Reason(runErr)),
			zap.Duration("elapsed", elapsed),
			zap.Error(runErr),
		)
		w.emit(runID, progress.StageRunError, elapsed, run.ErrorText)
		span := trace.SpanFromContext(ctx)
		span.RecordError(runErr)
		span.SetStatus(codes.Error, Reason(runErr))
	} else {
		run.Status = menu.RunStatusSucceeded
		logger.Info("menu run finished",
			zap.Int("recipes", run.Recipes),
			zap.Int("skipped", run.Skipped),
			zap.Int("items", run.Items),
			zap.Duration("elapsed", elapsed),
		)
		w.emit(runID, progress.StageRunDone, elapsed, "")
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("menu.recipes", run.Recipes),
			attribute.Int("menu.items", run.Items),
		)
	}

	// Bookkeeping must outlive a canceled run context.
	bg := context.WithoutCancel(ctx)
	if err := w.runs.UpdateRun(bg, run); err != nil {
		logger.Warn("record run result failed", zap.Error(err))
	}
	w.publish(bg, run, logger)
	return run
}

func (w *Worker) publish(ctx context.Context, run menu.Run, logger *zap.Logger) {
	if w.publisher == nil {
		return
	}
	summary := menu.RunSummary{
		RunID:      run.ID,
		Trigger:    run.Trigger,
		Status:     run.Status,
		FinishedAt: *run.FinishedAt,
		Recipes:    run.Recipes,
		Skipped:    run.Skipped,
		Items:      run.Items,
		BodyDigest: run.BodyDigest,
		ErrorText:  run.ErrorText,
	}
	id, err := w.publisher.PublishRun(ctx, summary)
	if err != nil {
		logger.Warn("publish run summary failed", zap.Error(err))
		return
	}
	logger.Debug("run summary published", zap.String("message_id", id))
}

func (w *Worker) emit(runID uuid.UUID, stage progress.Stage, dur time.Duration, note string) {
	w.emitter.Emit(progress.Event{
		RunID: runID,
		TS:    w.clock.Now(),
		Stage: stage,
		Dur:   dur,
		Note:  note,
	})
}

// Preview builds the plan and composes the email without sending it or
// recording a run.
func (w *Worker) Preview(ctx context.Context) (string, menu.Plan, error) {
	ctx, span := w.tracer.Start(ctx, "menu.preview")
	defer span.End()
	plan, err := w.builder.Build(ctx)
	if err != nil {
		return "", menu.Plan{}, err
	}
	return menu.ComposeEmail(plan.Entries, plan.ShoppingList, w.cfg.Weekdays), plan, nil
}

// Subject returns the configured email subject.
func (w *Worker) Subject() string {
	return w.cfg.Subject
}

// Reason maps a job-level error to a short label for logs.
func Reason(err error) string {
	var (
		insufficient *menu.InsufficientRecipesError
		fetchErr     *menu.FetchError
		cfgErr       *mailer.ConfigurationError
		deliveryErr  *mailer.DeliveryError
	)
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_recipes"
	case errors.As(err, &cfgErr):
		return "mail_configuration"
	case errors.As(err, &deliveryErr):
		return "mail_delivery"
	case errors.As(err, &fetchErr):
		return "listing_fetch"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
