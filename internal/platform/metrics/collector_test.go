package metrics

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector() *Collector {
	return NewCollector(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCollector_ItemSettled(t *testing.T) {
	c := newTestCollector()

	c.ItemSettled("frame", "succeeded", 2*time.Second)
	c.ItemSettled("frame", "succeeded", time.Second)
	c.ItemSettled("frame", "failed", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.itemsTotal.WithLabelValues("frame", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.itemsTotal.WithLabelValues("frame", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.itemDuration))
}

func TestCollector_Gauges(t *testing.T) {
	c := newTestCollector()

	c.InFlight(3)
	c.ActivePolls(2)
	c.InFlight(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.activePolls))
}

func TestCollector_PollAndBatch(t *testing.T) {
	c := newTestCollector()

	c.PollQuery(false)
	c.PollQuery(true)
	c.PollQuery(false)
	c.BatchFinished("scene", "mixed")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.pollQueries.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.pollQueries.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batchesTotal.WithLabelValues("scene", "mixed")))
}

func TestCollector_Handler(t *testing.T) {
	c := newTestCollector()
	c.BatchFinished("prop", "succeeded")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storyboard_batch_runs_total{asset_type="prop",outcome="succeeded"} 1`)
}

func TestCollectors_AreIndependent(t *testing.T) {
	a := newTestCollector()
	b := newTestCollector()

	a.PollQuery(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.pollQueries.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.pollQueries.WithLabelValues("ok")))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.ItemSettled("frame", "succeeded", time.Second)
	r.BatchFinished("frame", "succeeded")
	r.InFlight(1)
	r.PollQuery(true)
	r.ActivePolls(0)
}
