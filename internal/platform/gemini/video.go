package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
	"google.golang.org/genai"
)

// submitVideo starts a video generation operation. The first reference image,
// if any, seeds the video.
func (c *Client) submitVideo(
	ctx context.Context,
	log *slog.Logger,
	req generation.Request,
	refs []*reference,
) (*generation.Outcome, error) {
	model := req.Model
	if model == "" {
		model = c.config.VideoModel
	}

	var seed *genai.Image
	if len(refs) > 0 {
		seed = refs[0].image()
	}

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: int32(req.VariantCount()),
		AspectRatio:    req.AspectRatio,
	}

	var op *genai.GenerateVideosOperation
	err := c.withRetry(ctx, log, func() error {
		var err error
		op, err = c.models.GenerateVideos(ctx, model, req.Prompt, seed, cfg)
		if err != nil {
			return err
		}
		if op == nil || op.Name == "" {
			return fmt.Errorf("%w: operation has no name", generation.ErrInvalidResponse)
		}
		return nil
	})
	if err != nil {
		log.WarnContext(ctx, "Video submission failed", "error", err)
		return nil, err
	}

	log.InfoContext(ctx, "Video generation submitted", "task_id", op.Name, "model", model)
	return &generation.Outcome{Handle: &generation.TaskHandle{TaskID: op.Name}}, nil
}

// videoStatus maps a long-running operation onto a status report.
func videoStatus(op *genai.GenerateVideosOperation) *generation.StatusReport {
	if !op.Done {
		return &generation.StatusReport{Status: domain.TaskStatusProcessing}
	}

	if len(op.Error) > 0 {
		return &generation.StatusReport{
			Status: domain.TaskStatusFailed,
			Error:  operationErrorMessage(op.Error),
		}
	}

	if op.Response == nil {
		return &generation.StatusReport{
			Status: domain.TaskStatusFailed,
			Error:  "operation finished without a response",
		}
	}

	for _, generated := range op.Response.GeneratedVideos {
		if generated == nil || generated.Video == nil {
			continue
		}
		video := generated.Video
		if video.URI != "" {
			return &generation.StatusReport{Status: domain.TaskStatusSucceeded, ResultURL: video.URI}
		}
		if len(video.VideoBytes) > 0 {
			mimeType := video.MIMEType
			if mimeType == "" {
				mimeType = "video/mp4"
			}
			return &generation.StatusReport{
				Status:    domain.TaskStatusSucceeded,
				ResultURL: encodeDataURL(mimeType, video.VideoBytes),
			}
		}
	}

	msg := "operation finished without a video"
	if len(op.Response.RAIMediaFilteredReasons) > 0 {
		msg = "video filtered: " + strings.Join(op.Response.RAIMediaFilteredReasons, "; ")
	}
	return &generation.StatusReport{Status: domain.TaskStatusFailed, Error: msg}
}

func operationErrorMessage(opErr map[string]any) string {
	if msg, ok := opErr["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("operation failed: %v", opErr)
}
