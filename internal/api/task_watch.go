package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/phrazzld/storyboard-api/internal/task"
)

// TaskBinder attaches a sink to the status updates of one remote task.
type TaskBinder interface {
	Lookup(taskID string) (domain.GenerationTask, bool)
	Bind(taskID string, sink task.Sink) (unbind func())
}

// TaskWatch streams the snapshots of a single task to a websocket client.
// Each task has one binding; a newer watcher of the same task takes over
// from the previous one, which then receives nothing further.
type TaskWatch struct {
	binder TaskBinder
	config EventStreamConfig
	logger *slog.Logger
}

// NewTaskWatch creates a TaskWatch bound through binder.
func NewTaskWatch(binder TaskBinder, config EventStreamConfig, logger *slog.Logger) *TaskWatch {
	if logger == nil {
		logger = slog.Default()
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultEventStreamConfig().WriteTimeout
	}
	return &TaskWatch{
		binder: binder,
		config: config,
		logger: logger.With("component", "task_watch"),
	}
}

// ServeHTTP handles GET /api/tasks/{taskID}/watch. The connection is closed
// normally after the terminal snapshot has been written.
func (tw *TaskWatch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	log := logger.FromContextOrDefault(r.Context(), tw.logger).With("task_id", taskID)

	if _, ok := tw.binder.Lookup(taskID); !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID), "")
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: tw.config.OriginPatterns})
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())

	// Only the newest snapshot matters; the sink replaces an unsent one.
	latest := make(chan domain.GenerationTask, 1)
	unbind := tw.binder.Bind(taskID, func(snapshot domain.GenerationTask) {
		select {
		case <-latest:
		default:
		}
		latest <- snapshot
	})
	defer unbind()

	for {
		select {
		case <-ctx.Done():
			log.Debug("task watcher disconnected")
			return
		case snapshot := <-latest:
			if err := tw.write(ctx, conn, snapshot); err != nil {
				log.Debug("task watch write failed", "error", err)
				return
			}
			if snapshot.Status.IsTerminal() {
				_ = conn.Close(websocket.StatusNormalClosure, string(snapshot.Status))
				return
			}
		}
	}
}

func (tw *TaskWatch) write(ctx context.Context, conn *websocket.Conn, snapshot domain.GenerationTask) error {
	ctx, cancel := context.WithTimeout(ctx, tw.config.WriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, snapshot)
}
