package generation

import (
	"context"
	"fmt"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// Client is the remote generation backend.
type Client interface {
	// GenerateOne submits one generation call for targetID. The returned
	// Outcome carries either a finished Result or a TaskHandle.
	GenerateOne(ctx context.Context, targetID string, req Request) (*Outcome, error)

	// QueryTaskStatus reports the current state of an asynchronous task.
	QueryTaskStatus(ctx context.Context, taskID string) (*StatusReport, error)
}

// Request is a fully composed generation call.
type Request struct {
	Prompt             string
	ReferenceImageURLs []string
	Mode               domain.GenerationMode
	Model              string
	AspectRatio        string
	// Variants is the number of outputs requested; values below 1 mean 1.
	Variants int
}

// Validate checks the request can be sent.
func (r Request) Validate() error {
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is empty", ErrInvalidRequest)
	}
	switch r.Mode {
	case "", domain.GenerationModeImage, domain.GenerationModeVideo:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, r.Mode)
	}
	return nil
}

// VariantCount returns Variants clamped to at least 1.
func (r Request) VariantCount() int {
	if r.Variants < 1 {
		return 1
	}
	return r.Variants
}

// Image is one generated output. URL is a remote location or a data: URL
// when the backend returned inline bytes.
type Image struct {
	URL      string `json:"url"`
	MIMEType string `json:"mime_type,omitempty"`
}

// Result is a finished synchronous generation.
type Result struct {
	Images []Image `json:"images"`
}

// TaskHandle names an asynchronous remote job.
type TaskHandle struct {
	TaskID string `json:"task_id"`
}

// Outcome holds exactly one of Result or Handle.
type Outcome struct {
	Result *Result     `json:"result,omitempty"`
	Handle *TaskHandle `json:"handle,omitempty"`
}

// IsAsync reports whether the outcome is a pending remote task.
func (o *Outcome) IsAsync() bool {
	return o != nil && o.Handle != nil
}

// StatusReport is a remote task status observation. Status is one of
// processing, succeeded or failed.
type StatusReport struct {
	Status    domain.TaskStatus `json:"status"`
	ResultURL string            `json:"result_url,omitempty"`
	Error     string            `json:"error,omitempty"`
}
