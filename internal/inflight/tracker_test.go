package inflight

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_AcquireRelease(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()

	assert.True(t, tracker.Acquire("c1"), "first acquire should succeed")
	assert.False(t, tracker.Acquire("c1"), "second acquire before release should fail")
	assert.True(t, tracker.IsBusy("c1"))

	tracker.Release("c1")
	assert.False(t, tracker.IsBusy("c1"))
	assert.True(t, tracker.Acquire("c1"), "acquire after release should succeed")
}

func TestTracker_ReleaseIdleIsNoop(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()

	tracker.Release("never-acquired")
	assert.False(t, tracker.IsBusy("never-acquired"))
	assert.Empty(t, tracker.Busy())
}

func TestTracker_ZeroValue(t *testing.T) {
	t.Parallel()
	var tracker Tracker

	assert.False(t, tracker.IsBusy("p1"))
	assert.True(t, tracker.Acquire("p1"))
	assert.Equal(t, []string{"p1"}, tracker.Busy())
}

func TestTracker_IndependentIDs(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()

	assert.True(t, tracker.Acquire("b"))
	assert.True(t, tracker.Acquire("a"))
	assert.Equal(t, []string{"a", "b"}, tracker.Busy())

	tracker.Release("b")
	assert.Equal(t, []string{"a"}, tracker.Busy())
}

func TestTracker_ConcurrentAcquire(t *testing.T) {
	t.Parallel()
	tracker := NewTracker()

	const goroutines = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if tracker.Acquire("shared") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one goroutine should win the acquire")
	assert.True(t, tracker.IsBusy("shared"))
}
