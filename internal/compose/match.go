package compose

import (
	"strings"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// namesMatch reports whether either name contains the other, ignoring case
// and surrounding whitespace. Short names can match inside longer unrelated
// ones ("Li" matches "Lin"); this is the matching policy the libraries have
// always used.
func namesMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// findByName returns the first asset in library order whose name matches.
func findByName(name string, assets []domain.Asset) (domain.Asset, bool) {
	for _, a := range assets {
		if namesMatch(name, a.Name) {
			return a, true
		}
	}
	return domain.Asset{}, false
}

// ResolveReferences matches a shot's free-text names against the libraries.
// The result lists characters in shot order, then the scene, then props in
// shot order. Unmatched names are dropped and duplicate matches collapse.
func ResolveReferences(shot domain.Shot, lib Libraries) domain.ReferenceSet {
	var set domain.ReferenceSet

	add := func(kind domain.ReferenceKind, name string) {
		asset, ok := findByName(name, lib.assets(kind))
		if !ok || set.Contains(kind, asset.ID) {
			return
		}
		set.Refs = append(set.Refs, domain.Reference{Kind: kind, ID: asset.ID})
	}

	for _, name := range shot.Characters {
		add(domain.ReferenceKindCharacter, name)
	}
	add(domain.ReferenceKindScene, shot.SceneSetting)
	for _, name := range shot.Props {
		add(domain.ReferenceKindProp, name)
	}

	return set
}

// resolvedRef is a reference whose asset was found in the libraries.
// imagePosition is the 1-based position of its image in the request, or 0
// when the asset has no image.
type resolvedRef struct {
	ref           domain.Reference
	asset         domain.Asset
	imagePosition int
}

// resolveAssets looks up every reference in set, in order. References with
// no asset in the libraries are skipped; imageless assets are kept without
// an image position.
func resolveAssets(set domain.ReferenceSet, lib Libraries) []resolvedRef {
	out := make([]resolvedRef, 0, len(set.Refs))
	next := 1
	for _, ref := range set.Refs {
		asset, ok := lib.Asset(ref.Kind, ref.ID)
		if !ok {
			continue
		}
		r := resolvedRef{ref: ref, asset: asset}
		if asset.HasImage() {
			r.imagePosition = next
			next++
		}
		out = append(out, r)
	}
	return out
}
