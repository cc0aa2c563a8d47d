package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/storyboard-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 32)
	assert.NotContains(t, traceID, "-")
	assert.Empty(t, GetTraceID(ctx), "original context should remain unchanged")

	assert.NotEqual(t, NewTraceID(), NewTraceID())

	invalid := context.WithValue(ctx, TraceIDKey, 123)
	assert.Empty(t, GetTraceID(invalid))
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr error
		errText string
	}{
		{name: "valid json", body: `{"name":"frame-1"}`},
		{name: "empty body", body: "", wantErr: ErrEmptyBody},
		{name: "invalid json", body: `{"name": "x",}`, errText: "invalid character"},
		{name: "unknown field", body: `{"name":"x","extra":1}`, errText: "unknown field"},
		{name: "trailing data", body: `{"name":"x"}{"name":"y"}`, errText: "unexpected data"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.body))

			var got payload
			err := DecodeJSON(req, &got)

			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errText)
			default:
				require.NoError(t, err)
				assert.Equal(t, "frame-1", got.Name)
			}
		})
	}
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type tagged struct {
		Name string `validate:"required"`
	}

	assert.NoError(t, ValidateRequest(tagged{Name: "x"}))
	assert.Error(t, ValidateRequest(tagged{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	RespondWithJSON(rec, req, http.StatusCreated, map[string]int{"total": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total":3}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	ctx := logger.WithLogger(WithTraceID(context.Background(), "trace-123"), log)
	req := httptest.NewRequest(http.MethodPost, "/api/generations", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusBadGateway, "Generation failed",
		errors.New("upstream said api_key=abcdef1234567890 is bad"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Generation failed", body.Error)
	assert.Equal(t, "trace-123", body.TraceID)

	logged := buf.String()
	assert.Contains(t, logged, "API error response")
	assert.Contains(t, logged, "[REDACTED_KEY]")
	assert.NotContains(t, logged, "abcdef1234567890")
}
