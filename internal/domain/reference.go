package domain

// ReferenceKind is the library a reference points into.
type ReferenceKind string

// Possible reference kinds
const (
	ReferenceKindCharacter ReferenceKind = "character"
	ReferenceKindScene     ReferenceKind = "scene"
	ReferenceKindProp      ReferenceKind = "prop"
)

// Reference points at one library asset.
type Reference struct {
	Kind ReferenceKind `json:"kind"`
	ID   string        `json:"id"`
}

// ReferenceSet is an ordered list of references plus an optional style.
// The order is significant: prompts refer to images by position.
type ReferenceSet struct {
	Refs    []Reference `json:"refs"`
	StyleID string      `json:"style_id,omitempty"`
}

// Len returns the number of references.
func (r ReferenceSet) Len() int {
	return len(r.Refs)
}

// Contains reports whether the set already holds a reference to id of kind.
func (r ReferenceSet) Contains(kind ReferenceKind, id string) bool {
	for _, ref := range r.Refs {
		if ref.Kind == kind && ref.ID == id {
			return true
		}
	}
	return false
}
