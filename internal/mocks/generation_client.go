package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
)

// MockClient implements generation.Client for testing
type MockClient struct {
	// GenerateOneFn allows test cases to mock the GenerateOne behavior
	GenerateOneFn func(ctx context.Context, targetID string, req generation.Request) (*generation.Outcome, error)

	// QueryTaskStatusFn allows test cases to mock the QueryTaskStatus behavior
	QueryTaskStatusFn func(ctx context.Context, taskID string) (*generation.StatusReport, error)

	// Default response values
	Outcome *generation.Outcome
	Status  *generation.StatusReport
	Err     error

	// mu protects the call tracking state; GenerateOne is called from
	// concurrent goroutines by the batch scheduler
	mu sync.Mutex

	generateCalls []GenerateCall
	statusCalls   []string
}

// GenerateCall records the arguments of one GenerateOne call.
type GenerateCall struct {
	TargetID string
	Request  generation.Request
}

// Ensure MockClient implements generation.Client
var _ generation.Client = (*MockClient)(nil)

// GenerateOne implements the generation.Client interface
func (m *MockClient) GenerateOne(
	ctx context.Context,
	targetID string,
	req generation.Request,
) (*generation.Outcome, error) {
	m.mu.Lock()
	m.generateCalls = append(m.generateCalls, GenerateCall{TargetID: targetID, Request: req})
	m.mu.Unlock()

	if m.GenerateOneFn != nil {
		return m.GenerateOneFn(ctx, targetID, req)
	}
	return m.Outcome, m.Err
}

// QueryTaskStatus implements the generation.Client interface
func (m *MockClient) QueryTaskStatus(ctx context.Context, taskID string) (*generation.StatusReport, error) {
	m.mu.Lock()
	m.statusCalls = append(m.statusCalls, taskID)
	m.mu.Unlock()

	if m.QueryTaskStatusFn != nil {
		return m.QueryTaskStatusFn(ctx, taskID)
	}
	return m.Status, m.Err
}

// GenerateCalls returns a copy of the recorded GenerateOne calls.
func (m *MockClient) GenerateCalls() []GenerateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GenerateCall(nil), m.generateCalls...)
}

// GeneratedTargetIDs returns the target ids passed to GenerateOne, in call order.
func (m *MockClient) GeneratedTargetIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, len(m.generateCalls))
	for i, call := range m.generateCalls {
		ids[i] = call.TargetID
	}
	return ids
}

// StatusCallCount returns how many times QueryTaskStatus was called.
func (m *MockClient) StatusCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.statusCalls)
}

// ImageOutcome builds a synchronous outcome holding a single image.
func ImageOutcome(url string) *generation.Outcome {
	return &generation.Outcome{
		Result: &generation.Result{Images: []generation.Image{{URL: url, MIMEType: "image/png"}}},
	}
}

// TaskOutcome builds an asynchronous outcome carrying a remote task id.
func TaskOutcome(taskID string) *generation.Outcome {
	return &generation.Outcome{Handle: &generation.TaskHandle{TaskID: taskID}}
}

// NewMockClientWithError creates a MockClient whose calls all fail with err
func NewMockClientWithError(err error) *MockClient {
	return &MockClient{Err: err}
}

// NewMockClientWithStatuses creates a MockClient whose QueryTaskStatus walks
// through statuses in order and then repeats the last one.
func NewMockClientWithStatuses(statuses ...domain.TaskStatus) *MockClient {
	var mu sync.Mutex
	next := 0
	return &MockClient{
		QueryTaskStatusFn: func(_ context.Context, taskID string) (*generation.StatusReport, error) {
			mu.Lock()
			defer mu.Unlock()
			if len(statuses) == 0 {
				return &generation.StatusReport{Status: domain.TaskStatusProcessing}, nil
			}
			status := statuses[next]
			if next < len(statuses)-1 {
				next++
			}
			report := &generation.StatusReport{Status: status}
			switch status {
			case domain.TaskStatusSucceeded:
				report.ResultURL = "https://cdn.example/" + taskID + ".mp4"
			case domain.TaskStatusFailed:
				report.Error = "remote task failed"
			}
			return report, nil
		},
	}
}
