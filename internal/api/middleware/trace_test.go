package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/storyboard-api/internal/api/shared"
	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.GetTestLogger(t)

	var seenTrace, seenRequestID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		seenRequestID = logger.RequestIDFromContext(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	t.Run("generates a trace id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches/frame", nil))

		assert.Len(t, seenTrace, 32)
		assert.Equal(t, seenTrace, seenRequestID)
		assert.Equal(t, seenTrace, rec.Header().Get(shared.TraceIDHeader))
		assert.Contains(t, buf.String(), seenTrace)
	})

	t.Run("reuses a well-formed incoming trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(shared.TraceIDHeader, "frontend-trace-42")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "frontend-trace-42", seenTrace)
	})

	t.Run("replaces a malformed incoming trace id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(shared.TraceIDHeader, "bad id\n")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "bad id\n", seenTrace)
		assert.Len(t, seenTrace, 32)
	})
}
