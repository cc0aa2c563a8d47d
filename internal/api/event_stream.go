package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/phrazzld/storyboard-api/internal/events"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
)

// EventSubscriber registers event handlers.
type EventSubscriber interface {
	RegisterHandler(handler events.EventHandler) (unregister func())
}

// EventStreamConfig holds websocket stream settings.
type EventStreamConfig struct {
	// Buffer is the number of events queued per client before new events
	// are dropped for that client
	Buffer int

	// WriteTimeout bounds a single websocket write
	WriteTimeout time.Duration

	// OriginPatterns are passed to websocket.Accept for cross-origin clients
	OriginPatterns []string
}

// DefaultEventStreamConfig returns an EventStreamConfig with reasonable defaults
func DefaultEventStreamConfig() EventStreamConfig {
	return EventStreamConfig{
		Buffer:       64,
		WriteTimeout: 5 * time.Second,
	}
}

// EventStream pushes batch and task events to websocket clients.
type EventStream struct {
	subscriber EventSubscriber
	config     EventStreamConfig
	logger     *slog.Logger
}

// NewEventStream creates an EventStream fed by subscriber.
func NewEventStream(subscriber EventSubscriber, config EventStreamConfig, logger *slog.Logger) *EventStream {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Buffer <= 0 {
		config.Buffer = DefaultEventStreamConfig().Buffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultEventStreamConfig().WriteTimeout
	}
	return &EventStream{
		subscriber: subscriber,
		config:     config,
		logger:     logger.With("component", "event_stream"),
	}
}

// ServeHTTP handles GET /api/events. The optional "types" query parameter is
// a comma separated list of event types to receive.
func (s *EventStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), s.logger)
	filter := parseTypeFilter(r.URL.Query().Get("types"))

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.config.OriginPatterns})
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Clients only listen; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	queue := make(chan *events.Event, s.config.Buffer)
	unregister := s.subscriber.RegisterHandler(events.HandlerFunc(func(_ context.Context, event *events.Event) error {
		if len(filter) > 0 && !filter[event.Type] {
			return nil
		}
		select {
		case queue <- event:
		default:
			log.Warn("event stream client is slow, dropping event",
				"event_id", event.ID,
				"event_type", event.Type)
		}
		return nil
	}))
	defer unregister()

	log.Info("event stream client connected")
	for {
		select {
		case <-ctx.Done():
			log.Info("event stream client disconnected")
			return
		case event := <-queue:
			if err := s.write(ctx, conn, event); err != nil {
				log.Debug("event stream write failed", "error", err)
				return
			}
		}
	}
}

func (s *EventStream) write(ctx context.Context, conn *websocket.Conn, event *events.Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.WriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, event)
}

func parseTypeFilter(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	filter := make(map[string]bool)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter[t] = true
		}
	}
	return filter
}
