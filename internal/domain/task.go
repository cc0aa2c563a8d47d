package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle state of an asynchronous remote generation job.
type TaskStatus string

// Possible task status values
const (
	TaskStatusSubmitted  TaskStatus = "submitted"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusSucceeded || s == TaskStatusFailed
}

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusSubmitted, TaskStatusProcessing, TaskStatusSucceeded, TaskStatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether a task may move from one status to another.
// Processing may be observed repeatedly.
func CanTransition(from, to TaskStatus) bool {
	switch from {
	case TaskStatusSubmitted:
		return to == TaskStatusProcessing
	case TaskStatusProcessing:
		return to == TaskStatusProcessing || to.IsTerminal()
	}
	return false
}

// GenerationTask is one asynchronous remote job, keyed by the remote task id.
type GenerationTask struct {
	TaskID    string     `json:"task_id"`
	TargetID  string     `json:"target_id"`
	Status    TaskStatus `json:"status"`
	ResultURL string     `json:"result_url,omitempty"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewGenerationTask creates a task in the submitted state.
func NewGenerationTask(taskID, targetID string) (*GenerationTask, error) {
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	return &GenerationTask{
		TaskID:    taskID,
		TargetID:  targetID,
		Status:    TaskStatusSubmitted,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Transition moves the task to status, enforcing the legal ordering.
func (t *GenerationTask) Transition(status TaskStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, status)
	}
	if !CanTransition(t.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, status)
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Observe applies a remotely observed status. A submitted task that is
// observed as terminal passes through processing first, so the recorded
// history never skips a step. Observations on a terminal task are rejected.
func (t *GenerationTask) Observe(status TaskStatus, resultURL, errMsg string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, status)
	}
	if t.Status == TaskStatusSubmitted && status != TaskStatusSubmitted {
		if err := t.Transition(TaskStatusProcessing); err != nil {
			return err
		}
		if status == TaskStatusProcessing {
			return nil
		}
	}
	if err := t.Transition(status); err != nil {
		return err
	}
	switch status {
	case TaskStatusSucceeded:
		t.ResultURL = resultURL
	case TaskStatusFailed:
		t.Error = errMsg
	}
	return nil
}
