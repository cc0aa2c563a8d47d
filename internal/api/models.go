package api

import (
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
)

// TargetRequest describes one item to generate.
type TargetRequest struct {
	ID                 string                `json:"id"                             validate:"required"`
	Name               string                `json:"name,omitempty"`
	Prompt             string                `json:"prompt,omitempty"`
	Shot               *domain.Shot          `json:"shot,omitempty"`
	StyleID            string                `json:"style_id,omitempty"`
	ReferenceImageURLs []string              `json:"reference_image_urls,omitempty" validate:"omitempty,dive,required"`
	Mode               domain.GenerationMode `json:"mode,omitempty"                 validate:"omitempty,oneof=image video"`
}

// SettingsRequest overrides the server's default generation settings.
type SettingsRequest struct {
	DefaultStyleID *string `json:"default_style_id,omitempty"`
	AspectRatio    string  `json:"aspect_ratio,omitempty"     validate:"omitempty,oneof=16:9 9:16 1:1 4:3 3:4"`
	Variants       int     `json:"variants,omitempty"         validate:"omitempty,min=1,max=4"`
}

// StartBatchRequest is the payload of POST /api/batches/{assetType}.
type StartBatchRequest struct {
	Targets  []TargetRequest  `json:"targets"            validate:"required,min=1,dive"`
	StyleID  string           `json:"style_id,omitempty"`
	Settings *SettingsRequest `json:"settings,omitempty"`
}

// GenerateRequest is the payload of POST /api/generations.
type GenerateRequest struct {
	Type     domain.AssetType `json:"type"               validate:"required"`
	Target   TargetRequest    `json:"target"`
	StyleID  string           `json:"style_id,omitempty"`
	Settings *SettingsRequest `json:"settings,omitempty"`
}

// PollRequest is the optional payload of POST /api/tasks/{taskID}/poll.
type PollRequest struct {
	TargetID string `json:"target_id,omitempty"`
}

// GenerateResponse is returned by POST /api/generations. Exactly one of
// Images and TaskID is set.
type GenerateResponse struct {
	TargetID string             `json:"target_id"`
	Images   []generation.Image `json:"images,omitempty"`
	TaskID   string             `json:"task_id,omitempty"`
}

// TaskResponse describes a polled task.
type TaskResponse struct {
	domain.GenerationTask
	Polling bool `json:"polling"`
}

// BusyResponse is returned by GET /api/assets/{id}/busy.
type BusyResponse struct {
	ID   string `json:"id"`
	Busy bool   `json:"busy"`
}

// PollResponse is returned by POST /api/tasks/{taskID}/poll.
type PollResponse struct {
	TaskID  string `json:"task_id"`
	Started bool   `json:"started"`
}

func (t TargetRequest) toDomain(assetType domain.AssetType) domain.GenerationTarget {
	return domain.GenerationTarget{
		ID:   t.ID,
		Type: assetType,
		Name: t.Name,
		Request: domain.GenerationRequest{
			Prompt:             t.Prompt,
			Shot:               t.Shot,
			StyleID:            t.StyleID,
			ReferenceImageURLs: t.ReferenceImageURLs,
			Mode:               t.Mode,
		},
	}
}

// apply returns defaults with the request's overrides.
func (s *SettingsRequest) apply(defaults domain.GenerationSettings) domain.GenerationSettings {
	if s == nil {
		return defaults
	}
	if s.DefaultStyleID != nil {
		defaults.DefaultStyleID = *s.DefaultStyleID
	}
	if s.AspectRatio != "" {
		defaults.AspectRatio = s.AspectRatio
	}
	if s.Variants > 0 {
		defaults.Variants = s.Variants
	}
	return defaults
}

func newGenerateResponse(targetID string, outcome *generation.Outcome) GenerateResponse {
	resp := GenerateResponse{TargetID: targetID}
	if outcome.IsAsync() {
		resp.TaskID = outcome.Handle.TaskID
	} else if outcome != nil && outcome.Result != nil {
		resp.Images = outcome.Result.Images
	}
	return resp
}
