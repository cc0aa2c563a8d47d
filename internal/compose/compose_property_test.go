package compose

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/phrazzld/storyboard-api/internal/domain"
	"pgregory.net/rapid"
)

var namePool = []string{"小明", "Alice", "alice", "Bob", "Rooftop", "roof", "Red Umbrella", "umbrella", "Zed", ""}

func kindRank(k domain.ReferenceKind) int {
	switch k {
	case domain.ReferenceKindCharacter:
		return 0
	case domain.ReferenceKindScene:
		return 1
	}
	return 2
}

func TestResolveReferences_Properties(t *testing.T) {
	lib := testLibraries()

	rapid.Check(t, func(t *rapid.T) {
		shot := domain.Shot{
			Characters:   rapid.SliceOfN(rapid.SampledFrom(namePool), 0, 6).Draw(t, "characters"),
			SceneSetting: rapid.SampledFrom(namePool).Draw(t, "scene"),
			Props:        rapid.SliceOfN(rapid.SampledFrom(namePool), 0, 4).Draw(t, "props"),
		}

		set := ResolveReferences(shot, lib)

		seen := make(map[domain.Reference]bool)
		lastRank := 0
		for _, ref := range set.Refs {
			if seen[ref] {
				t.Fatalf("duplicate reference %v", ref)
			}
			seen[ref] = true

			rank := kindRank(ref.Kind)
			if rank < lastRank {
				t.Fatalf("reference %v out of kind order in %v", ref, set.Refs)
			}
			lastRank = rank

			if _, ok := lib.Asset(ref.Kind, ref.ID); !ok {
				t.Fatalf("reference %v does not exist in the library", ref)
			}
		}
	})
}

func TestCompose_ImageStyleAlwaysLast(t *testing.T) {
	lib := testLibraries()
	composer := newTestComposer()

	rapid.Check(t, func(t *rapid.T) {
		shot := &domain.Shot{
			Characters:   rapid.SliceOfN(rapid.SampledFrom(namePool), 0, 6).Draw(t, "characters"),
			SceneSetting: rapid.SampledFrom(namePool).Draw(t, "scene"),
			Props:        rapid.SliceOfN(rapid.SampledFrom(namePool), 0, 4).Draw(t, "props"),
		}
		target := domain.GenerationTarget{ID: "f", Type: domain.AssetTypeFrame, Request: domain.GenerationRequest{Shot: shot}}

		got := composer.Compose(lib, target, domain.GenerationSettings{DefaultStyleID: "s1"}, "")

		want := ResolveReferences(*shot, lib)
		if !reflect.DeepEqual(got.References.Refs, want.Refs) {
			t.Fatalf("references %v, want %v", got.References.Refs, want.Refs)
		}
		imaged := 0
		for _, ref := range want.Refs {
			if asset, _ := lib.Asset(ref.Kind, ref.ID); asset.HasImage() {
				imaged++
			}
		}

		n := len(got.ReferenceImageURLs)
		if n != imaged+1 {
			t.Fatalf("expected %d images, got %d", imaged+1, n)
		}
		if got.ReferenceImageURLs[n-1] != "https://cdn.example/s1.png" {
			t.Fatalf("style image not last: %v", got.ReferenceImageURLs)
		}
		suffix := fmt.Sprintf("the %s image.", ordinal(n))
		if !strings.HasSuffix(got.Prompt, suffix) {
			t.Fatalf("prompt %q should end with %q", got.Prompt, suffix)
		}
	})
}
