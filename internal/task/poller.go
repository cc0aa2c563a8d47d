package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/events"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/platform/metrics"
)

// StatusQuerier is the part of generation.Client the poller depends on.
type StatusQuerier interface {
	QueryTaskStatus(ctx context.Context, taskID string) (*generation.StatusReport, error)
}

// Sink receives task snapshots for whatever state is currently bound to a task id.
// Sinks are called sequentially and must not call Bind themselves.
type Sink func(task domain.GenerationTask)

// PollerConfig holds the polling intervals.
type PollerConfig struct {
	// Interval is the delay between status queries
	Interval time.Duration

	// ErrorInterval replaces Interval after a failed query
	ErrorInterval time.Duration
}

// DefaultPollerConfig returns a PollerConfig with the standard 5s/10s cadence
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:      5 * time.Second,
		ErrorInterval: 10 * time.Second,
	}
}

// Option customizes a Poller.
type Option func(*Poller)

// WithEmitter publishes a task.updated event for every applied status.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(p *Poller) { p.emitter = emitter }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(p *Poller) {
		if recorder != nil {
			p.metrics = recorder
		}
	}
}

// WithTimer replaces time.After as the source of poll delays.
func WithTimer(after func(time.Duration) <-chan time.Time) Option {
	return func(p *Poller) {
		if after != nil {
			p.after = after
		}
	}
}

type binding struct {
	sink Sink
}

// pollLoop identifies one running loop so a loop that was stopped and
// replaced cannot unregister its successor.
type pollLoop struct {
	cancel context.CancelFunc
}

// Poller owns every running poll loop, keyed by remote task id.
type Poller struct {
	querier StatusQuerier
	config  PollerConfig
	emitter events.EventEmitter
	metrics metrics.Recorder
	after   func(time.Duration) <-chan time.Time
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// deliverMu serializes sink delivery so a sink never sees an older
	// snapshot after a newer one.
	deliverMu sync.Mutex

	mu       sync.Mutex
	loops    map[string]*pollLoop
	tasks    map[string]*domain.GenerationTask
	bindings map[string]*binding
	closed   bool
}

// NewPoller creates a new Poller. Zero or negative intervals fall back to
// the defaults.
func NewPoller(querier StatusQuerier, config PollerConfig, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "task_poller")

	defaults := DefaultPollerConfig()
	if config.Interval <= 0 {
		logger.Warn("invalid poll interval specified, using default",
			"specified", config.Interval,
			"default", defaults.Interval)
		config.Interval = defaults.Interval
	}
	if config.ErrorInterval <= 0 {
		config.ErrorInterval = defaults.ErrorInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		querier:  querier,
		config:   config,
		metrics:  metrics.Nop{},
		after:    time.After,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		loops:    make(map[string]*pollLoop),
		tasks:    make(map[string]*domain.GenerationTask),
		bindings: make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins polling taskID on behalf of targetID. It returns false without
// side effects when a loop for taskID is already running, when the task has
// already reached a terminal status that has not been consumed, or when the
// poller is shut down.
func (p *Poller) Start(taskID, targetID string) bool {
	task, err := domain.NewGenerationTask(taskID, targetID)
	if err != nil {
		p.logger.Warn("refusing to poll task", "error", err)
		return false
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return false
	}
	if _, running := p.loops[taskID]; running {
		p.mu.Unlock()
		return false
	}
	if existing, ok := p.tasks[taskID]; ok && existing.Status.IsTerminal() {
		p.mu.Unlock()
		return false
	}
	if _, ok := p.tasks[taskID]; !ok {
		p.tasks[taskID] = task
	}

	ctx, cancel := context.WithCancel(p.ctx)
	loop := &pollLoop{cancel: cancel}
	p.loops[taskID] = loop
	active := len(p.loops)
	p.wg.Add(1)
	p.mu.Unlock()

	p.metrics.ActivePolls(active)
	p.logger.Info("started polling task", "task_id", taskID, "target_id", targetID)

	go p.poll(ctx, taskID, loop)
	return true
}

// StartPolling implements the batch scheduler's task starter.
func (p *Poller) StartPolling(taskID, targetID string) bool {
	return p.Start(taskID, targetID)
}

// Stop cancels the loop for taskID. The last snapshot is kept and Start may
// be called again right away. Stopping an id that is not polling is a no-op.
func (p *Poller) Stop(taskID string) bool {
	p.mu.Lock()
	loop, ok := p.loops[taskID]
	if ok {
		delete(p.loops, taskID)
	}
	active := len(p.loops)
	p.mu.Unlock()

	if ok {
		loop.cancel()
		p.metrics.ActivePolls(active)
		p.logger.Info("stopped polling task", "task_id", taskID)
	}
	return ok
}

// Shutdown cancels every loop and waits for them to exit. Start returns
// false afterwards.
func (p *Poller) Shutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.logger.Info("task poller shut down")
}

// IsPolling reports whether a loop is running for taskID.
func (p *Poller) IsPolling(taskID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.loops[taskID]
	return ok
}

// Lookup returns the latest snapshot of taskID.
func (p *Poller) Lookup(taskID string) (domain.GenerationTask, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[taskID]
	if !ok {
		return domain.GenerationTask{}, false
	}
	return *task, true
}

// Consume removes and returns a terminal snapshot. Tasks still in flight are
// left untouched and reported as not consumed.
func (p *Poller) Consume(taskID string) (domain.GenerationTask, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[taskID]
	if !ok || !task.Status.IsTerminal() {
		return domain.GenerationTask{}, false
	}
	delete(p.tasks, taskID)
	return *task, true
}

// Bind attaches sink to taskID, replacing any previous binding. If a snapshot
// is already known it is delivered before Bind returns. The returned function
// detaches the sink; it does nothing once another sink has replaced it.
func (p *Poller) Bind(taskID string, sink Sink) (unbind func()) {
	b := &binding{sink: sink}

	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	p.bindings[taskID] = b
	var snapshot *domain.GenerationTask
	if task, ok := p.tasks[taskID]; ok {
		copied := *task
		snapshot = &copied
	}
	p.mu.Unlock()

	if snapshot != nil && sink != nil {
		sink(*snapshot)
	}

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.bindings[taskID] == b {
			delete(p.bindings, taskID)
		}
	}
}

func (p *Poller) poll(ctx context.Context, taskID string, loop *pollLoop) {
	defer p.wg.Done()
	defer p.finish(taskID, loop)

	logger := p.logger.With("task_id", taskID)
	delay := p.config.Interval

	for {
		select {
		case <-ctx.Done():
			logger.Debug("poll loop cancelled")
			return
		case <-p.after(delay):
		}

		report, err := p.querier.QueryTaskStatus(ctx, taskID)
		p.metrics.PollQuery(err != nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("task status query failed, backing off",
				"error", err,
				"retry_in", p.config.ErrorInterval)
			delay = p.config.ErrorInterval
			continue
		}
		delay = p.config.Interval

		if p.apply(ctx, logger, taskID, report) {
			return
		}
	}
}

// apply records report against the task and notifies the binding. It
// returns true once the task is terminal.
func (p *Poller) apply(
	ctx context.Context,
	logger *slog.Logger,
	taskID string,
	report *generation.StatusReport,
) bool {
	if report == nil {
		logger.Warn("task status query returned no report")
		return false
	}

	p.mu.Lock()
	task, ok := p.tasks[taskID]
	if !ok {
		// Consumed or never registered; nothing left to update.
		p.mu.Unlock()
		return true
	}
	if err := task.Observe(report.Status, report.ResultURL, report.Error); err != nil {
		terminal := task.Status.IsTerminal()
		p.mu.Unlock()
		logger.Warn("ignoring task status", "status", report.Status, "error", err)
		return terminal
	}
	snapshot := *task
	p.mu.Unlock()

	logger.Debug("task status applied", "status", snapshot.Status)
	if snapshot.Status.IsTerminal() {
		logger.Info("task reached terminal status",
			"status", snapshot.Status,
			"target_id", snapshot.TargetID)
	}

	p.deliver(taskID)

	if err := events.Emit(ctx, p.emitter, events.TypeTaskUpdated, snapshot); err != nil {
		logger.Warn("failed to emit task update", "error", err)
	}
	return snapshot.Status.IsTerminal()
}

// deliver hands the latest snapshot to the current binding, if any.
func (p *Poller) deliver(taskID string) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	p.mu.Lock()
	b := p.bindings[taskID]
	task, ok := p.tasks[taskID]
	var snapshot domain.GenerationTask
	if ok {
		snapshot = *task
	}
	p.mu.Unlock()

	if b == nil || b.sink == nil || !ok {
		return
	}
	b.sink(snapshot)
}

func (p *Poller) finish(taskID string, loop *pollLoop) {
	p.mu.Lock()
	if p.loops[taskID] == loop {
		delete(p.loops, taskID)
	}
	active := len(p.loops)
	p.mu.Unlock()
	loop.cancel()

	p.metrics.ActivePolls(active)
}
