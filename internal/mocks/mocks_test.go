package mocks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"github.com/phrazzld/storyboard-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient(t *testing.T) {
	t.Parallel()

	t.Run("Default values", func(t *testing.T) {
		t.Parallel()

		client := &mocks.MockClient{Outcome: mocks.ImageOutcome("https://cdn.example/a.png")}
		outcome, err := client.GenerateOne(context.Background(), "a", generation.Request{Prompt: "p"})

		require.NoError(t, err)
		assert.False(t, outcome.IsAsync())
		assert.Equal(t, []string{"a"}, client.GeneratedTargetIDs())
		assert.Equal(t, "p", client.GenerateCalls()[0].Request.Prompt)
	})

	t.Run("Error case", func(t *testing.T) {
		t.Parallel()

		client := mocks.NewMockClientWithError(generation.ErrTransientFailure)
		_, err := client.GenerateOne(context.Background(), "a", generation.Request{})
		assert.True(t, errors.Is(err, generation.ErrTransientFailure))
	})

	t.Run("Scripted statuses", func(t *testing.T) {
		t.Parallel()

		client := mocks.NewMockClientWithStatuses(domain.TaskStatusProcessing, domain.TaskStatusSucceeded)
		ctx := context.Background()

		first, err := client.QueryTaskStatus(ctx, "op-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusProcessing, first.Status)

		for i := 0; i < 2; i++ {
			report, err := client.QueryTaskStatus(ctx, "op-1")
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStatusSucceeded, report.Status)
			assert.Equal(t, "https://cdn.example/op-1.mp4", report.ResultURL)
		}
		assert.Equal(t, 3, client.StatusCallCount())
	})
}

func TestMockTaskStarter(t *testing.T) {
	t.Parallel()

	starter := &mocks.MockTaskStarter{}
	assert.True(t, starter.StartPolling("op-1", "v1"))
	assert.False(t, starter.StartPolling("op-1", "v1"))
	assert.Equal(t, map[string]string{"op-1": "v1"}, starter.Started())
}
