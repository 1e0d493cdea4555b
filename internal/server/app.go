// Package server builds the agent's dependency graph and owns its
// lifecycle: the weekly scheduler loop, the optional ops HTTP server and
// the background progress hub.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/weekly-menu-agent/internal/api"
	"github.com/JakeFAU/weekly-menu-agent/internal/clock/system"
	"github.com/JakeFAU/weekly-menu-agent/internal/config"
	collyfetcher "github.com/JakeFAU/weekly-menu-agent/internal/fetcher/colly"
	"github.com/JakeFAU/weekly-menu-agent/internal/hash/sha256"
	"github.com/JakeFAU/weekly-menu-agent/internal/id/uuid"
	"github.com/JakeFAU/weekly-menu-agent/internal/logging"
	"github.com/JakeFAU/weekly-menu-agent/internal/mailer"
	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
	"github.com/JakeFAU/weekly-menu-agent/internal/metrics"
	"github.com/JakeFAU/weekly-menu-agent/internal/progress"
	progresssinks "github.com/JakeFAU/weekly-menu-agent/internal/progress/sinks"
	memorypublisher "github.com/JakeFAU/weekly-menu-agent/internal/publisher/memory"
	gcppublisher "github.com/JakeFAU/weekly-menu-agent/internal/publisher/pubsub"
	"github.com/JakeFAU/weekly-menu-agent/internal/scheduler"
	memorystore "github.com/JakeFAU/weekly-menu-agent/internal/storage/memory"
	"github.com/JakeFAU/weekly-menu-agent/internal/telemetry"
	"github.com/JakeFAU/weekly-menu-agent/internal/worker"
)

// App contains the application's dependencies.
type App struct {
	cfg         config.Config
	logger      *zap.Logger
	worker      *worker.Worker
	scheduler   *scheduler.Scheduler
	apiServer   *api.Server
	progressHub *progress.Hub
	tracer      *sdktrace.TracerProvider
	closePubSub func() error
}

// Option customizes Build.
type Option func(*buildOptions)

type buildOptions struct {
	registerer prometheus.Registerer
	sender     menu.Sender
	logger     *zap.Logger
}

// WithRegisterer registers progress metrics on reg instead of the default
// registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *buildOptions) {
		o.registerer = reg
	}
}

// WithSender replaces the SMTP mailer.
func WithSender(sender menu.Sender) Option {
	return func(o *buildOptions) {
		o.sender = sender
	}
}

// WithLogger replaces the logger built from cfg.Logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// Build creates the application's dependencies.
func Build(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{Development: cfg.Logging.Development, Level: cfg.Logging.Level})
		if err != nil {
			return nil, fmt.Errorf("logger init failed: %w", err)
		}
		zap.ReplaceGlobals(logger)
	}
	app := &App{cfg: cfg, logger: logger}
	metrics.Init()

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := system.New(loc)

	if cfg.Telemetry.Tracing {
		app.tracer, err = telemetry.InitTracerProvider(ctx, telemetry.ServiceName, logger.Named("trace"))
		if err != nil {
			return nil, fmt.Errorf("tracing init failed: %w", err)
		}
	}

	if err := app.setupProgress(o.registerer); err != nil {
		return nil, err
	}

	publisher, err := app.setupPublisher(ctx)
	if err != nil {
		return nil, err
	}

	fetcher := progress.InstrumentFetcher(collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.HTTP.UserAgent,
		RespectRobots: cfg.HTTP.RespectRobots,
		Timeout:       cfg.HTTP.Timeout,
	}), app.progressHub)
	logger.Info("using colly fetcher",
		zap.String("user_agent", cfg.HTTP.UserAgent),
		zap.Duration("timeout", cfg.HTTP.Timeout),
	)

	builder := menu.NewBuilder(fetcher, menu.Source{
		ListingURL:        cfg.Source.ListingURL,
		Origin:            cfg.Source.Origin,
		RecipePath:        cfg.Source.RecipePath,
		StructuredDataID:  cfg.Source.StructuredDataID,
		IngredientHeading: cfg.Source.IngredientHeading,
	},
		menu.WithMenuSize(cfg.Menu.Size),
		menu.WithSeed(cfg.Menu.Seed),
		menu.WithLogger(logger.Named("menu")),
		menu.WithRecipeObserver(progress.RecipeObserver(app.progressHub)),
	)

	sender := o.sender
	if sender == nil {
		sender = mailer.New(mailer.Config{
			Host:    cfg.SMTP.Host,
			Port:    cfg.SMTP.Port,
			Timeout: cfg.SMTP.Timeout,
		}, mailer.WithLogger(logger.Named("mailer")))
	}

	runs := memorystore.NewRunStore(cfg.Server.RunHistory)
	app.worker = worker.New(worker.Deps{
		Builder:   builder,
		Sender:    sender,
		Runs:      runs,
		Publisher: publisher,
		Hasher:    sha256.New(),
		Clock:     clock,
		IDs:       uuid.New(),
		Emitter:   app.progressHub,
	}, worker.Config{
		Subject:  cfg.Mail.Subject,
		Weekdays: cfg.Mail.Weekdays,
	}, logger.Named("worker"))

	app.scheduler, err = scheduler.New(scheduler.Config{
		Spec:         cfg.Schedule.Cron,
		PollInterval: cfg.Schedule.PollInterval,
		OnScheduled:  metrics.SetNextRun,
	}, clock, func(ctx context.Context) {
		metrics.ObserveFiring(string(menu.TriggerSchedule))
		app.worker.Run(ctx, menu.TriggerSchedule)
	}, logger.Named("scheduler"))
	if err != nil {
		return nil, fmt.Errorf("scheduler init failed: %w", err)
	}

	if cfg.Server.Enabled {
		app.apiServer = api.NewServer(runs, app.scheduler, logger.Named("api"))
	}
	return app, nil
}

func (a *App) setupProgress(reg prometheus.Registerer) error {
	promSink, err := progresssinks.NewPrometheusSink(reg)
	if err != nil {
		return fmt.Errorf("progress metrics init failed: %w", err)
	}
	hubCfg := progress.Config{
		BufferSize:     a.cfg.Progress.BufferSize,
		MaxBatchEvents: a.cfg.Progress.MaxBatchEvents,
		MaxBatchWait:   a.cfg.Progress.MaxBatchWait,
		Logger:         a.logger.Named("progress_hub"),
	}
	a.progressHub = progress.NewHub(hubCfg,
		progresssinks.NewLogSink(a.logger),
		promSink,
	)
	a.logger.Debug("progress hub initialized",
		zap.Int("buffer_size", hubCfg.BufferSize),
		zap.Int("max_batch_events", hubCfg.MaxBatchEvents),
		zap.Duration("max_batch_wait", hubCfg.MaxBatchWait),
	)
	return nil
}

func (a *App) setupPublisher(ctx context.Context) (menu.Publisher, error) {
	if !a.cfg.PubSubEnabled() {
		a.logger.Info("no Pub/Sub topic configured, using in-memory publisher")
		return memorypublisher.New(), nil
	}
	pub, closeFn, err := gcppublisher.Dial(ctx, a.cfg.PubSub.ProjectID, a.cfg.PubSub.TopicName)
	if err != nil {
		return nil, fmt.Errorf("pubsub publisher init failed: %w", err)
	}
	a.closePubSub = closeFn
	a.logger.Info("Pub/Sub publisher initialized",
		zap.String("project", a.cfg.PubSub.ProjectID),
		zap.String("topic", a.cfg.PubSub.TopicName),
	)
	return pub, nil
}

// Run starts the scheduler loop, and the ops server when enabled, and
// blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if a.apiServer != nil {
		srv = &http.Server{
			Addr:              fmt.Sprintf(":%d", a.cfg.Server.Port),
			Handler:           a.apiServer.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.logger.Info("ops server started", zap.Int("port", a.cfg.Server.Port))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("ops server error", zap.Error(err))
				stop()
			}
		}()
	}

	a.logger.Info("menu agent started")
	err := a.scheduler.Run(ctx)
	a.logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("ops server shutdown error", zap.Error(err))
		}
	}
	if closeErr := a.Close(shutdownCtx); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// RunOnce executes the job immediately.
func (a *App) RunOnce(ctx context.Context) menu.Run {
	metrics.ObserveFiring(string(menu.TriggerManual))
	return a.worker.Run(ctx, menu.TriggerManual)
}

// Preview builds and composes this week's email without sending it.
func (a *App) Preview(ctx context.Context) (subject, body string, plan menu.Plan, err error) {
	body, plan, err = a.worker.Preview(ctx)
	return a.worker.Subject(), body, plan, err
}

// Scheduler exposes the trigger state.
func (a *App) Scheduler() *scheduler.Scheduler {
	return a.scheduler
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Close flushes progress events and releases clients.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.progressHub.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
		}
	}
	if a.closePubSub != nil {
		if err := a.closePubSub(); err != nil {
			errs = append(errs, fmt.Errorf("close pubsub: %w", err))
		}
	}
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
	return errors.Join(errs...)
}
