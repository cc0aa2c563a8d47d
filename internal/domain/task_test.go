package domain

import (
	"errors"
	"testing"
)

func TestNewGenerationTask(t *testing.T) {
	t.Parallel()

	task, err := NewGenerationTask("operations/abc", "frame-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Status != TaskStatusSubmitted {
		t.Errorf("Expected status %s, got %s", TaskStatusSubmitted, task.Status)
	}
	if task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	if _, err := NewGenerationTask("", "frame-1"); err != ErrEmptyTaskID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTaskID, err)
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{TaskStatusSubmitted, TaskStatusProcessing, true},
		{TaskStatusSubmitted, TaskStatusSucceeded, false},
		{TaskStatusSubmitted, TaskStatusFailed, false},
		{TaskStatusProcessing, TaskStatusProcessing, true},
		{TaskStatusProcessing, TaskStatusSucceeded, true},
		{TaskStatusProcessing, TaskStatusFailed, true},
		{TaskStatusProcessing, TaskStatusSubmitted, false},
		{TaskStatusSucceeded, TaskStatusProcessing, false},
		{TaskStatusFailed, TaskStatusProcessing, false},
		{TaskStatusSucceeded, TaskStatusFailed, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestGenerationTaskObserve(t *testing.T) {
	t.Parallel()

	t.Run("submitted observed as succeeded passes through processing", func(t *testing.T) {
		task, _ := NewGenerationTask("op-1", "v1")
		if err := task.Observe(TaskStatusSucceeded, "https://cdn/v1.mp4", ""); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if task.Status != TaskStatusSucceeded {
			t.Errorf("Expected status %s, got %s", TaskStatusSucceeded, task.Status)
		}
		if task.ResultURL != "https://cdn/v1.mp4" {
			t.Errorf("Expected result url to be recorded, got %q", task.ResultURL)
		}
	})

	t.Run("processing observed repeatedly", func(t *testing.T) {
		task, _ := NewGenerationTask("op-2", "v2")
		for i := 0; i < 3; i++ {
			if err := task.Observe(TaskStatusProcessing, "", ""); err != nil {
				t.Fatalf("Expected no error on observation %d, got %v", i, err)
			}
		}
		if task.Status != TaskStatusProcessing {
			t.Errorf("Expected status %s, got %s", TaskStatusProcessing, task.Status)
		}
	})

	t.Run("failure records message", func(t *testing.T) {
		task, _ := NewGenerationTask("op-3", "v3")
		_ = task.Observe(TaskStatusProcessing, "", "")
		if err := task.Observe(TaskStatusFailed, "", "quota exceeded"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if task.Error != "quota exceeded" {
			t.Errorf("Expected error message to be recorded, got %q", task.Error)
		}
	})

	t.Run("terminal task never re-enters processing", func(t *testing.T) {
		task, _ := NewGenerationTask("op-4", "v4")
		_ = task.Observe(TaskStatusSucceeded, "u", "")
		err := task.Observe(TaskStatusProcessing, "", "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}
		if task.Status != TaskStatusSucceeded {
			t.Errorf("Expected status to stay %s, got %s", TaskStatusSucceeded, task.Status)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		task, _ := NewGenerationTask("op-5", "v5")
		_ = task.Observe(TaskStatusProcessing, "", "")
		if err := task.Observe(TaskStatus("weird"), "", ""); !errors.Is(err, ErrInvalidTaskStatus) {
			t.Errorf("Expected ErrInvalidTaskStatus, got %v", err)
		}
	})

	t.Run("unknown status leaves submitted task untouched", func(t *testing.T) {
		task, _ := NewGenerationTask("op-6", "v6")
		updatedAt := task.UpdatedAt
		if err := task.Observe(TaskStatus("bogus"), "", ""); !errors.Is(err, ErrInvalidTaskStatus) {
			t.Errorf("Expected ErrInvalidTaskStatus, got %v", err)
		}
		if task.Status != TaskStatusSubmitted {
			t.Errorf("Expected status to stay %s, got %s", TaskStatusSubmitted, task.Status)
		}
		if !task.UpdatedAt.Equal(updatedAt) {
			t.Errorf("Expected UpdatedAt to stay %v, got %v", updatedAt, task.UpdatedAt)
		}
	})
}
