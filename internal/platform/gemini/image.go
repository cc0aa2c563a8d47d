package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/generation"
	"google.golang.org/genai"
)

// generateImages issues one GenerateContent call per requested variant and
// collects every inline image from the responses.
func (c *Client) generateImages(
	ctx context.Context,
	log *slog.Logger,
	req generation.Request,
	refs []*reference,
) (*generation.Outcome, error) {
	model := req.Model
	if model == "" {
		model = c.config.ImageModel
	}

	contents := []*genai.Content{buildImageContent(req, refs)}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}

	result := &generation.Result{}
	for i := 0; i < req.VariantCount(); i++ {
		var images []generation.Image
		err := c.withRetry(ctx, log, func() error {
			resp, err := c.models.GenerateContent(ctx, model, contents, cfg)
			if err != nil {
				return err
			}
			images, err = extractImages(resp)
			return err
		})
		if err != nil {
			log.WarnContext(ctx, "Image generation failed", "variant", i+1, "error", err)
			return nil, err
		}
		result.Images = append(result.Images, images...)
	}

	log.DebugContext(ctx, "Images generated", "count", len(result.Images), "model", model)
	return &generation.Outcome{Result: result}, nil
}

// buildImageContent places the reference images first, in order, followed by
// the prompt text. Prompts refer to images by this position.
func buildImageContent(req generation.Request, refs []*reference) *genai.Content {
	parts := make([]*genai.Part, 0, len(refs)+1)
	for _, ref := range refs {
		parts = append(parts, ref.part())
	}

	prompt := req.Prompt
	if req.AspectRatio != "" {
		prompt = fmt.Sprintf("%s\nAspect ratio: %s.", prompt, req.AspectRatio)
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	return genai.NewContentFromParts(parts, genai.RoleUser)
}

// extractImages validates a response and returns its inline images as data URLs.
func extractImages(resp *genai.GenerateContentResponse) ([]generation.Image, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var images []generation.Image
	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		mimeType := part.InlineData.MIMEType
		if mimeType == "" {
			mimeType = defaultImageMIMEType
		}
		images = append(images, generation.Image{
			URL:      encodeDataURL(mimeType, part.InlineData.Data),
			MIMEType: mimeType,
		})
	}
	if len(images) == 0 {
		return nil, ErrNoOutput
	}
	return images, nil
}
