package mocks

import "sync"

// MockTaskStarter records requests to start polling remote tasks
type MockTaskStarter struct {
	// StartPollingFn allows test cases to mock the StartPolling behavior
	StartPollingFn func(taskID, targetID string) bool

	mu      sync.Mutex
	started map[string]string
}

// StartPolling records taskID and reports whether it was new
func (m *MockTaskStarter) StartPolling(taskID, targetID string) bool {
	m.mu.Lock()
	if m.started == nil {
		m.started = make(map[string]string)
	}
	_, seen := m.started[taskID]
	m.started[taskID] = targetID
	m.mu.Unlock()

	if m.StartPollingFn != nil {
		return m.StartPollingFn(taskID, targetID)
	}
	return !seen
}

// Started returns a copy of the task id to target id mapping
func (m *MockTaskStarter) Started() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.started))
	for k, v := range m.started {
		out[k] = v
	}
	return out
}
