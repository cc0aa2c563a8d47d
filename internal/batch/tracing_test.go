package batch

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestRunBatch_RecordsSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	client := &mocks.MockClient{
		GenerateOneFn: func(_ context.Context, targetID string, _ generation.Request) (*generation.Outcome, error) {
			if targetID == "s01" {
				return nil, generation.ErrContentBlocked
			}
			return mocks.ImageOutcome("https://cdn.example/" + targetID + ".png"), nil
		},
	}
	scheduler, _ := newTestScheduler(client, WithTracerProvider(provider))

	run, err := scheduler.RunBatch(context.Background(), domain.AssetTypeScene,
		makeTargets("s", domain.AssetTypeScene, 4), domain.GenerationSettings{})
	require.NoError(t, err)
	waitRun(t, run)

	var runSpan sdktrace.ReadOnlySpan
	require.Eventually(t, func() bool {
		for _, span := range recorder.Ended() {
			if span.Name() == "batch.run" {
				runSpan = span
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	outcome, ok := spanAttr(runSpan, "batch.outcome")
	require.True(t, ok)
	assert.Equal(t, string(domain.BatchOutcomeMixed), outcome.AsString())

	items := 0
	for _, span := range recorder.Ended() {
		if span.Name() != "batch.item" {
			continue
		}
		items++
		assert.Equal(t, runSpan.SpanContext().TraceID(), span.SpanContext().TraceID(),
			"item spans should belong to the run trace")

		id, _ := spanAttr(span, "batch.target_id")
		if id.AsString() == "s01" {
			assert.Equal(t, codes.Error, span.Status().Code)
		} else {
			assert.Equal(t, codes.Unset, span.Status().Code)
		}
	}
	assert.Equal(t, 4, items)
}

func TestWithTracerProvider_NilKeepsDefault(t *testing.T) {
	t.Parallel()

	scheduler, _ := newTestScheduler(&mocks.MockClient{}, WithTracerProvider(nil))
	assert.NotNil(t, scheduler.tracer)
}
