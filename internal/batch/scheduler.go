package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storyboard-api/internal/compose"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/events"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/inflight"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/phrazzld/storyboard-api/internal/platform/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const instrumentationName = "github.com/phrazzld/storyboard-api/internal/batch"

// Scheduler dispatches generation targets to the remote client.
type Scheduler struct {
	client   generation.Client
	composer *compose.Composer
	tracker  *inflight.Tracker
	tasks    TaskStarter
	emitter  events.EventEmitter
	metrics  metrics.Recorder
	tracer   trace.Tracer
	limiter  *rate.Limiter
	config   Config
	logger   *slog.Logger

	mu     sync.Mutex
	runs   map[domain.AssetType]*Run
	closed bool
}

// NewScheduler creates a Scheduler. A non-positive width falls back to the
// default width.
func NewScheduler(
	client generation.Client,
	composer *compose.Composer,
	tracker *inflight.Tracker,
	config Config,
	logger *slog.Logger,
	opts ...Option,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "batch_scheduler")

	if config.Width <= 0 {
		logger.Warn("invalid concurrency width specified, using default",
			"specified_width", config.Width,
			"default_width", DefaultConfig().Width)
		config.Width = DefaultConfig().Width
	}
	if tracker == nil {
		tracker = inflight.NewTracker()
	}
	if composer == nil {
		composer = compose.NewComposer(nil, logger)
	}

	s := &Scheduler{
		client:   client,
		composer: composer,
		tracker:  tracker,
		metrics:  metrics.Nop{},
		tracer:   otel.Tracer(instrumentationName),
		config:   config,
		logger:   logger,
		runs:     make(map[domain.AssetType]*Run),
	}
	if config.DispatchRatePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.DispatchRatePerSecond), 1)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunBatch starts a run over targets and returns its handle immediately.
// Any unfinished run for the same asset type is stopped. The run outlives
// ctx's cancellation; use Run.Stop to end it.
func (s *Scheduler) RunBatch(
	ctx context.Context,
	assetType domain.AssetType,
	targets []domain.GenerationTarget,
	settings domain.GenerationSettings,
	opts ...RunOption,
) (*Run, error) {
	if !assetType.IsValid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidBatch, domain.ErrInvalidAssetType, assetType)
	}

	run := newRun(uuid.NewString(), assetType, append([]domain.GenerationTarget(nil), targets...), collectRunOptions(opts))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSchedulerClosed
	}
	prior := s.runs[assetType]
	s.runs[assetType] = run
	s.mu.Unlock()

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		"run_id", run.id,
		"asset_type", string(assetType))

	if prior != nil && !prior.isDone() {
		log.Info("superseding previous batch run", "previous_run_id", prior.id)
		prior.Stop()
	}

	log.Info("starting batch run", "total", len(targets), "width", s.config.Width)
	go s.execute(context.WithoutCancel(ctx), log, run, settings, collectRunOptions(opts).styleID)
	return run, nil
}

// GenerateSingle generates one target outside any batch run. It returns
// ErrTargetBusy when the target already has a call in flight. Asynchronous
// outcomes are handed to the task starter before returning.
func (s *Scheduler) GenerateSingle(
	ctx context.Context,
	target domain.GenerationTarget,
	settings domain.GenerationSettings,
	opts ...RunOption,
) (*generation.Outcome, error) {
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSchedulerClosed
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		"target_id", target.ID,
		"asset_type", string(target.Type))

	lib := s.composer.LoadLibraries(ctx)
	outcome, err := s.process(ctx, log, lib, target, settings, collectRunOptions(opts).styleID)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// IsBusy reports whether id has a generation call in flight.
func (s *Scheduler) IsBusy(id string) bool {
	return s.tracker.IsBusy(id)
}

// Current returns the latest run started for assetType, finished or not.
func (s *Scheduler) Current(assetType domain.AssetType) (*Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[assetType]
	return run, ok
}

// Shutdown stops every run and waits for their current chunks to drain or
// for ctx to end.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	runs := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	s.mu.Unlock()

	for _, run := range runs {
		run.Stop()
	}
	for _, run := range runs {
		if _, err := run.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for run %s: %w", run.id, err)
		}
	}
	s.logger.Info("batch scheduler shut down", "runs", len(runs))
	return nil
}

func (s *Scheduler) execute(
	ctx context.Context,
	log *slog.Logger,
	run *Run,
	settings domain.GenerationSettings,
	styleID string,
) {
	ctx, span := s.tracer.Start(ctx, "batch.run",
		trace.WithAttributes(
			attribute.String("batch.run_id", run.id),
			attribute.String("batch.asset_type", string(run.assetType)),
			attribute.Int("batch.total", len(run.targets)),
			attribute.Int("batch.width", s.config.Width),
		))
	defer span.End()

	lib := s.composer.LoadLibraries(ctx)
	width := s.config.Width
	stopped := false

	for start := 0; start < len(run.targets); start += width {
		if run.shouldStop() {
			stopped = true
			log.Info("batch run stopped before chunk", "next_index", start)
			break
		}

		end := min(start+width, len(run.targets))
		chunk := run.targets[start:end]

		report, callbacks := run.beginChunk(chunk)
		s.report(ctx, log, events.TypeBatchProgress, report, callbacks)

		var g errgroup.Group
		for _, target := range chunk {
			g.Go(func() error {
				_, err := s.process(ctx, log, lib, target, settings, styleID)
				run.settle(target, err == nil)
				return nil
			})
		}
		_ = g.Wait()
	}
	// A stop that arrived during the last chunk still ends the run as stopped.
	stopped = stopped || run.shouldStop()

	final, callbacks := run.finish(stopped)
	s.metrics.BatchFinished(string(run.assetType), string(final.Outcome))
	span.SetAttributes(
		attribute.String("batch.outcome", string(final.Outcome)),
		attribute.Int("batch.succeeded", final.Succeeded),
		attribute.Int("batch.failed", final.Failed))
	log.Info("batch run finished",
		"outcome", final.Outcome,
		"succeeded", final.Succeeded,
		"failed", final.Failed,
		"total", final.Total)
	s.report(ctx, log, events.TypeBatchDone, final, callbacks)
	run.close()
}

// process runs one target end to end. The tracker entry is held from
// dispatch until the remote call settles.
func (s *Scheduler) process(
	ctx context.Context,
	log *slog.Logger,
	lib compose.Libraries,
	target domain.GenerationTarget,
	settings domain.GenerationSettings,
	styleID string,
) (outcome *generation.Outcome, err error) {
	assetType := string(target.Type)
	log = log.With("target_id", target.ID)

	ctx, span := s.tracer.Start(ctx, "batch.item",
		trace.WithAttributes(
			attribute.String("batch.target_id", target.ID),
			attribute.String("batch.asset_type", assetType),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Bool("generation.async", outcome.IsAsync()))
		}
		span.End()
	}()

	if err := target.Validate(); err != nil {
		log.Warn("skipping invalid target", "error", err)
		s.metrics.ItemSettled(assetType, "failed", 0)
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	if !s.tracker.Acquire(target.ID) {
		log.Warn("target already in flight, skipping")
		s.metrics.ItemSettled(assetType, "busy", 0)
		return nil, fmt.Errorf("%w: %s", ErrTargetBusy, target.ID)
	}
	s.metrics.InFlight(len(s.tracker.Busy()))
	defer func() {
		s.tracker.Release(target.ID)
		s.metrics.InFlight(len(s.tracker.Busy()))
	}()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.metrics.ItemSettled(assetType, "failed", 0)
			return nil, fmt.Errorf("%w: dispatch rate limit: %v", generation.ErrTransientFailure, err)
		}
	}

	composed := s.composer.Compose(lib, target, settings, styleID)
	req := buildRequest(composed, target, settings)

	started := time.Now()
	outcome, err = s.client.GenerateOne(ctx, target.ID, req)
	elapsed := time.Since(started)
	if err == nil && outcome == nil {
		err = fmt.Errorf("%w: empty outcome", generation.ErrInvalidResponse)
	}
	if err != nil {
		log.Warn("generation failed", "error", err, "duration_ms", elapsed.Milliseconds())
		s.metrics.ItemSettled(assetType, "failed", elapsed)
		return nil, err
	}

	if outcome.IsAsync() {
		if s.tasks != nil {
			s.tasks.StartPolling(outcome.Handle.TaskID, target.ID)
		} else {
			log.Warn("no task starter configured, remote task will not be polled",
				"task_id", outcome.Handle.TaskID)
		}
	}

	log.Debug("generation settled", "async", outcome.IsAsync(), "duration_ms", elapsed.Milliseconds())
	s.metrics.ItemSettled(assetType, "succeeded", elapsed)
	return outcome, nil
}

func (s *Scheduler) report(
	ctx context.Context,
	log *slog.Logger,
	eventType string,
	progress domain.BatchProgress,
	callbacks []func(domain.BatchProgress),
) {
	for _, cb := range callbacks {
		cb(progress)
	}
	if err := events.Emit(ctx, s.emitter, eventType, progress); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("failed to emit batch event", "event_type", eventType, "error", err)
	}
}
