package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/mocks"
	"github.com/phrazzld/storyboard-api/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchRouter(poller *task.Poller) http.Handler {
	r := chi.NewRouter()
	r.Get("/tasks/{taskID}/watch", NewTaskWatch(poller, DefaultEventStreamConfig(), testLogger()).ServeHTTP)
	return r
}

func TestTaskWatch_StreamsUntilTerminal(t *testing.T) {
	t.Parallel()

	reports := make(chan domain.TaskStatus)
	client := &mocks.MockClient{
		QueryTaskStatusFn: func(ctx context.Context, taskID string) (*generation.StatusReport, error) {
			select {
			case status := <-reports:
				report := &generation.StatusReport{Status: status}
				if status == domain.TaskStatusSucceeded {
					report.ResultURL = "https://cdn.example/" + taskID + ".mp4"
				}
				return report, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	poller := task.NewPoller(client, task.PollerConfig{Interval: time.Millisecond, ErrorInterval: time.Millisecond}, testLogger())
	t.Cleanup(poller.Shutdown)
	require.True(t, poller.Start("op-w", "v1"))

	srv := httptest.NewServer(newWatchRouter(poller))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/tasks/op-w/watch"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var snapshot domain.GenerationTask
	require.NoError(t, wsjson.Read(ctx, conn, &snapshot))
	assert.Equal(t, domain.TaskStatusSubmitted, snapshot.Status, "binding delivers the known snapshot first")

	reports <- domain.TaskStatusProcessing
	require.NoError(t, wsjson.Read(ctx, conn, &snapshot))
	assert.Equal(t, domain.TaskStatusProcessing, snapshot.Status)

	reports <- domain.TaskStatusSucceeded
	require.NoError(t, wsjson.Read(ctx, conn, &snapshot))
	assert.Equal(t, domain.TaskStatusSucceeded, snapshot.Status)
	assert.Equal(t, "https://cdn.example/op-w.mp4", snapshot.ResultURL)
	assert.Equal(t, "v1", snapshot.TargetID)

	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}

func TestTaskWatch_UnknownTask(t *testing.T) {
	t.Parallel()

	poller := task.NewPoller(&mocks.MockClient{}, task.DefaultPollerConfig(), testLogger())
	t.Cleanup(poller.Shutdown)

	rec := httptest.NewRecorder()
	newWatchRouter(poller).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/missing/watch", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
