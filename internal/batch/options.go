package batch

import (
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/events"
	"github.com/phrazzld/storyboard-api/internal/platform/metrics"
	"go.opentelemetry.io/otel/trace"
)

// TaskStarter hands remote task ids to the poller.
type TaskStarter interface {
	StartPolling(taskID, targetID string) bool
}

// Config holds scheduler settings.
type Config struct {
	// Width is the number of targets dispatched concurrently per chunk
	Width int

	// DispatchRatePerSecond limits how fast remote calls are started.
	// Zero means unlimited.
	DispatchRatePerSecond float64
}

// DefaultConfig returns a Config with a chunk width of 3 and no rate limit
func DefaultConfig() Config {
	return Config{Width: 3}
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithTaskStarter sets where asynchronous task handles are sent.
func WithTaskStarter(starter TaskStarter) Option {
	return func(s *Scheduler) { s.tasks = starter }
}

// WithEmitter publishes batch.progress and batch.done events.
func WithEmitter(emitter events.EventEmitter) Option {
	return func(s *Scheduler) { s.emitter = emitter }
}

// WithTracerProvider sets where run and item spans are recorded. The global
// provider is used by default.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Scheduler) {
		if provider != nil {
			s.tracer = provider.Tracer(instrumentationName)
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *Scheduler) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// RunOption customizes a single run or single-item call.
type RunOption func(*runOptions)

type runOptions struct {
	styleID    string
	onProgress []func(domain.BatchProgress)
	onDone     []func(domain.BatchProgress)
}

// WithStyle overrides the style for every target of the call.
func WithStyle(styleID string) RunOption {
	return func(o *runOptions) { o.styleID = styleID }
}

// WithProgress registers a progress callback before the run starts, so no
// chunk report can be missed.
func WithProgress(cb func(domain.BatchProgress)) RunOption {
	return func(o *runOptions) {
		if cb != nil {
			o.onProgress = append(o.onProgress, cb)
		}
	}
}

// WithDone registers a completion callback before the run starts.
func WithDone(cb func(domain.BatchProgress)) RunOption {
	return func(o *runOptions) {
		if cb != nil {
			o.onDone = append(o.onDone, cb)
		}
	}
}

func collectRunOptions(opts []RunOption) runOptions {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
