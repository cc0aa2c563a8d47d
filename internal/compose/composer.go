package compose

import (
	"log/slog"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// ComposedRequest is the output of Compose.
type ComposedRequest struct {
	Prompt string
	// ReferenceImageURLs are in reference order; an image style, if any, is last.
	ReferenceImageURLs []string
	// References is the shot's reference set in caller order, including
	// references that contributed no image.
	References domain.ReferenceSet
	Style      *domain.Style
}

// Compose builds the prompt and reference image list for target.
//
// A shot's explicit ReferenceSet is used as given; otherwise references are
// resolved from the shot's names. Referenced assets without an image are
// named in the prompt but take no image position, so the style image sits
// right after the last reference image. Targets without a shot use their raw prompt and
// reference image URLs.
func (c *Composer) Compose(
	lib Libraries,
	target domain.GenerationTarget,
	settings domain.GenerationSettings,
	explicitStyleID string,
) ComposedRequest {
	req := target.Request

	itemStyleID := req.StyleID
	if itemStyleID == "" && req.Shot != nil && req.Shot.References != nil {
		itemStyleID = req.Shot.References.StyleID
	}
	style, hasStyle := ResolveStyle(explicitStyleID, itemStyleID, settings.DefaultStyleID, lib)

	var out ComposedRequest
	var b promptBuilder
	b.add(qualityBoilerplate)

	if req.Shot != nil {
		set := ResolveReferences(*req.Shot, lib)
		if req.Shot.References != nil {
			set = *req.Shot.References
		}
		resolved := resolveAssets(set, lib)
		if missing := len(set.Refs) - len(resolved); missing > 0 {
			c.logger.Debug("references not found in the libraries",
				slog.String("target_id", target.ID),
				slog.Int("missing", missing))
		}

		out.References.Refs = append(out.References.Refs, set.Refs...)
		for _, r := range resolved {
			if r.imagePosition > 0 {
				out.ReferenceImageURLs = append(out.ReferenceImageURLs, r.asset.ImageURL)
			}
		}
		shotSegments(&b, *req.Shot, resolved)
	} else {
		body := req.Prompt
		if body == "" {
			body = target.Name
		}
		b.add(body)
		for _, u := range req.ReferenceImageURLs {
			if u != "" {
				out.ReferenceImageURLs = append(out.ReferenceImageURLs, u)
			}
		}
	}

	if hasStyle {
		out.Style = &style
		out.References.StyleID = style.ID
		b.add(styleClause(style, len(out.ReferenceImageURLs)+1))
		if style.Kind == domain.StyleKindImage {
			out.ReferenceImageURLs = append(out.ReferenceImageURLs, style.ImageURL)
		}
	}

	out.Prompt = b.String()
	return out
}
