package compose

import (
	"fmt"
	"strings"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// qualityBoilerplate opens every prompt.
const qualityBoilerplate = "Masterpiece, best quality, highly detailed cinematic storyboard frame."

type promptBuilder struct {
	segments []string
}

func (b *promptBuilder) add(segment string) {
	if s := strings.TrimSpace(segment); s != "" {
		b.segments = append(b.segments, s)
	}
}

// labelled adds "Label: text." when text is non-empty.
func (b *promptBuilder) labelled(label, text string) {
	text = strings.TrimRight(strings.TrimSpace(text), ".。 ")
	if text == "" {
		return
	}
	b.add(fmt.Sprintf("%s: %s.", label, text))
}

func (b *promptBuilder) String() string {
	return strings.Join(b.segments, " ")
}

// shotSegments writes the shot body in fixed order: shot type, composition,
// scene, characters, props, lighting, mood. resolved holds the referenced
// assets in reference order.
func shotSegments(b *promptBuilder, shot domain.Shot, resolved []resolvedRef) {
	b.labelled("Shot type", shot.SceneType)
	b.labelled("Composition", shot.Composition)

	scene := shot.SceneSetting
	for _, r := range resolved {
		if r.ref.Kind != domain.ReferenceKindScene {
			continue
		}
		switch {
		case r.imagePosition > 0:
			scene = fmt.Sprintf("%s, as shown in the %s image", r.asset.Name, ordinal(r.imagePosition))
		case strings.TrimSpace(scene) == "":
			scene = r.asset.Name
		}
		break
	}
	b.labelled("Scene", scene)

	characters := describeNamed(domain.ReferenceKindCharacter, shot.Characters, resolved)
	if len(characters) > 0 {
		b.labelled("Characters", strings.Join(characters, ", "))
	}
	b.labelled("Action", shot.Action)
	b.labelled("Appearance", shot.Appearance)

	props := describeNamed(domain.ReferenceKindProp, shot.Props, resolved)
	if len(props) > 0 {
		b.labelled("Props", strings.Join(props, ", "))
	}

	b.labelled("Lighting", shot.Lighting)
	b.labelled("Mood", shot.Mood)
}

// describeNamed lists referenced assets of kind, with their image position
// when they have one, followed by raw names that no referenced asset matched.
func describeNamed(kind domain.ReferenceKind, rawNames []string, resolved []resolvedRef) []string {
	var out []string
	var matched []domain.Asset

	for _, r := range resolved {
		if r.ref.Kind != kind {
			continue
		}
		if r.imagePosition > 0 {
			out = append(out, fmt.Sprintf("%s (the %s image)", r.asset.Name, ordinal(r.imagePosition)))
		} else {
			out = append(out, r.asset.Name)
		}
		matched = append(matched, r.asset)
	}

	seen := make(map[string]bool)
	for _, name := range rawNames {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := findByName(name, matched); ok {
			continue
		}
		out = append(out, name)
	}
	return out
}
