package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/batch"
	"github.com/phrazzld/storyboard-api/internal/compose"
	"github.com/phrazzld/storyboard-api/internal/config"
	"github.com/phrazzld/storyboard-api/internal/events"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/inflight"
	"github.com/phrazzld/storyboard-api/internal/platform/gemini"
	"github.com/phrazzld/storyboard-api/internal/platform/metrics"
	"github.com/phrazzld/storyboard-api/internal/platform/postgres"
	"github.com/phrazzld/storyboard-api/internal/store"
	"github.com/phrazzld/storyboard-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory asset store is in use
	db     *sql.DB
	assets store.AssetReader
	client generation.Client

	tracker   *inflight.Tracker
	emitter   *events.InMemoryEventEmitter
	collector *metrics.Collector
	poller    *task.Poller
	scheduler *batch.Scheduler
}

// newApplication connects the asset store and the Gemini client, then wires
// the generation core on top of them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	var (
		db     *sql.DB
		assets store.AssetReader
	)

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		assets = postgres.NewPostgresAssetStore(db, logger)
		logger.Info("Using Postgres asset store")
	} else {
		assets = store.NewMemoryAssetStore()
		logger.Warn("No database URL configured, using empty in-memory asset store")
	}

	client, err := gemini.NewClient(ctx, logger, gemini.ConfigFromLLM(cfg.LLM))
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("failed to initialize generation client: %w", err)
	}
	logger.Info("Generation client initialized",
		"image_model", cfg.LLM.ImageModel,
		"video_model", cfg.LLM.VideoModel)

	app := assemble(cfg, logger, assets, client)
	app.db = db
	return app, nil
}

// assemble builds the tracker, composer, poller and scheduler around an
// asset reader and a generation client.
func assemble(
	cfg *config.Config,
	logger *slog.Logger,
	assets store.AssetReader,
	client generation.Client,
) *application {
	app := &application{
		config:    cfg,
		logger:    logger,
		assets:    assets,
		client:    client,
		tracker:   inflight.NewTracker(),
		emitter:   events.NewInMemoryEventEmitter(logger),
		collector: metrics.NewCollector(logger),
	}

	app.poller = task.NewPoller(
		client,
		task.PollerConfig{
			Interval:      cfg.Generation.PollInterval,
			ErrorInterval: cfg.Generation.PollErrorInterval,
		},
		logger,
		task.WithEmitter(app.emitter),
		task.WithRecorder(app.collector),
	)

	app.scheduler = batch.NewScheduler(
		client,
		compose.NewComposer(assets, logger),
		app.tracker,
		batch.Config{
			Width:                 cfg.Generation.ConcurrencyWidth,
			DispatchRatePerSecond: cfg.Generation.DispatchRatePerSecond,
		},
		logger,
		batch.WithTaskStarter(app.poller),
		batch.WithEmitter(app.emitter),
		batch.WithRecorder(app.collector),
	)

	return app
}

// cleanup stops active runs and polling loops, then closes the database.
// Runs are given until ctx expires to drain their current chunk.
func (app *application) cleanup(ctx context.Context) error {
	var errs []error

	if err := app.scheduler.Shutdown(ctx); err != nil {
		app.logger.Warn("Batch runs did not drain before shutdown deadline", "error", err)
		errs = append(errs, err)
	}
	app.poller.Shutdown()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
			errs = append(errs, err)
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	return errors.Join(errs...)
}
