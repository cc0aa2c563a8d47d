package batch

import (
	"github.com/phrazzld/storyboard-api/internal/compose"
	"github.com/phrazzld/storyboard-api/internal/domain"
	"github.com/phrazzld/storyboard-api/internal/generation"
)

// modeFor picks the generation mode: the request's own mode, or video for
// video assets and image for everything else.
func modeFor(target domain.GenerationTarget) domain.GenerationMode {
	if target.Request.Mode != "" {
		return target.Request.Mode
	}
	if target.Type == domain.AssetTypeVideo {
		return domain.GenerationModeVideo
	}
	return domain.GenerationModeImage
}

func buildRequest(
	composed compose.ComposedRequest,
	target domain.GenerationTarget,
	settings domain.GenerationSettings,
) generation.Request {
	mode := modeFor(target)
	model := settings.ImageModel
	if mode == domain.GenerationModeVideo {
		model = settings.VideoModel
	}
	return generation.Request{
		Prompt:             composed.Prompt,
		ReferenceImageURLs: composed.ReferenceImageURLs,
		Mode:               mode,
		Model:              model,
		AspectRatio:        settings.AspectRatio,
		Variants:           settings.Variants,
	}
}
