package batch

import (
	"context"
	"sync"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// Run is the handle of one batch run.
type Run struct {
	id        string
	assetType domain.AssetType
	targets   []domain.GenerationTarget
	done      chan struct{}

	mu            sync.Mutex
	stopRequested bool
	progress      domain.BatchProgress
	onProgress    []func(domain.BatchProgress)
	onDone        []func(domain.BatchProgress)
}

func newRun(id string, assetType domain.AssetType, targets []domain.GenerationTarget, opts runOptions) *Run {
	return &Run{
		id:        id,
		assetType: assetType,
		targets:   targets,
		done:      make(chan struct{}),
		progress: domain.BatchProgress{
			RunID:     id,
			AssetType: assetType,
			Status:    domain.BatchStatusRunning,
			Total:     len(targets),
		},
		onProgress: opts.onProgress,
		onDone:     opts.onDone,
	}
}

// ID returns the run id.
func (r *Run) ID() string { return r.id }

// AssetType returns the asset type the run generates.
func (r *Run) AssetType() domain.AssetType { return r.assetType }

// Stop asks the run to finish after the current chunk. It is safe to call
// more than once and after the run is done.
func (r *Run) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopRequested = true
	if r.progress.Status == domain.BatchStatusRunning {
		r.progress.Status = domain.BatchStatusStopping
	}
}

// OnProgress registers cb for the remaining chunk reports.
func (r *Run) OnProgress(cb func(domain.BatchProgress)) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onProgress = append(r.onProgress, cb)
}

// OnDone registers cb for the final report. If the run has already finished
// cb is called immediately.
func (r *Run) OnDone(cb func(domain.BatchProgress)) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	if r.progress.Status != domain.BatchStatusDone {
		r.onDone = append(r.onDone, cb)
		r.mu.Unlock()
		return
	}
	final := r.snapshotLocked()
	r.mu.Unlock()
	cb(final)
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Wait blocks until the run finishes or ctx is done and returns the latest
// progress.
func (r *Run) Wait(ctx context.Context) (domain.BatchProgress, error) {
	select {
	case <-r.done:
		return r.Progress(), nil
	case <-ctx.Done():
		return r.Progress(), ctx.Err()
	}
}

// Progress returns a snapshot of the run's counters.
func (r *Run) Progress() domain.BatchProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Run) snapshotLocked() domain.BatchProgress {
	p := r.progress
	p.Running = append([]string(nil), r.progress.Running...)
	return p
}

func (r *Run) shouldStop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopRequested
}

func (r *Run) isDone() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// beginChunk marks chunk as in flight and returns the report for it along
// with the callbacks to notify.
func (r *Run) beginChunk(chunk []domain.GenerationTarget) (domain.BatchProgress, []func(domain.BatchProgress)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.Running = r.progress.Running[:0]
	for _, target := range chunk {
		r.progress.Running = append(r.progress.Running, target.Label())
	}
	return r.snapshotLocked(), append(([]func(domain.BatchProgress))(nil), r.onProgress...)
}

func (r *Run) settle(target domain.GenerationTarget, succeeded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.Completed++
	if succeeded {
		r.progress.Succeeded++
	} else {
		r.progress.Failed++
	}

	label := target.Label()
	for i, name := range r.progress.Running {
		if name == label {
			r.progress.Running = append(r.progress.Running[:i], r.progress.Running[i+1:]...)
			break
		}
	}
}

// finish records the outcome and returns the final report with the callbacks
// to notify. Done stays open until close is called.
func (r *Run) finish(stopped bool) (domain.BatchProgress, []func(domain.BatchProgress)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.Status = domain.BatchStatusDone
	r.progress.Cancelled = stopped
	r.progress.Running = nil
	r.progress.Outcome, r.progress.Message = domain.Summarize(
		r.progress.Total, r.progress.Succeeded, r.progress.Failed, stopped)

	callbacks := r.onDone
	r.onDone = nil
	return r.snapshotLocked(), callbacks
}

func (r *Run) close() {
	close(r.done)
}
