// Package inflight tracks which assets currently have a generation call
// outstanding, so that one asset is never targeted by two overlapping calls.
package inflight

import (
	"sort"
	"sync"
)

// Tracker is a concurrency-safe set of busy asset ids.
// The zero value is ready to use.
type Tracker struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{busy: make(map[string]struct{})}
}

// Acquire marks id busy. It returns false if id was already busy, in which
// case the caller must not call Release for this attempt.
func (t *Tracker) Acquire(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy == nil {
		t.busy = make(map[string]struct{})
	}
	if _, ok := t.busy[id]; ok {
		return false
	}
	t.busy[id] = struct{}{}
	return true
}

// Release clears the busy mark for id. Releasing an idle id is a no-op.
func (t *Tracker) Release(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.busy, id)
}

// IsBusy reports whether id is currently marked busy.
func (t *Tracker) IsBusy(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.busy[id]
	return ok
}

// Busy returns the sorted ids currently marked busy.
func (t *Tracker) Busy() []string {
	t.mu.Lock()
	ids := make([]string, 0, len(t.busy))
	for id := range t.busy {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	sort.Strings(ids)
	return ids
}
