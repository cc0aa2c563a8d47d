package domain

import (
	"fmt"
	"strings"
)

// AssetType identifies one of the interchangeable asset collections.
type AssetType string

// Possible asset type values
const (
	AssetTypeCharacter AssetType = "character"
	AssetTypeProp      AssetType = "prop"
	AssetTypeScene     AssetType = "scene"
	AssetTypeStyle     AssetType = "style"
	AssetTypeFrame     AssetType = "frame"
	AssetTypeVideo     AssetType = "video"
)

// AssetTypes lists every collection in display order.
var AssetTypes = []AssetType{
	AssetTypeCharacter,
	AssetTypeProp,
	AssetTypeScene,
	AssetTypeStyle,
	AssetTypeFrame,
	AssetTypeVideo,
}

// IsValid reports whether t names a known collection.
func (t AssetType) IsValid() bool {
	for _, known := range AssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseAssetType converts a free-form string into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetType, s)
	}
	return t, nil
}

// Asset is a read-only library entry (character, scene, prop) that can be
// referenced by name from a shot and contribute a reference image.
type Asset struct {
	ID       string    `json:"id"`
	Type     AssetType `json:"type"`
	Name     string    `json:"name"`
	ImageURL string    `json:"image_url,omitempty"`
}

// HasImage reports whether the asset can serve as a reference image.
func (a Asset) HasImage() bool {
	return a.ImageURL != ""
}

// StyleKind distinguishes image styles (a reference picture) from text styles
// (a prompt fragment).
type StyleKind string

// Possible style kinds
const (
	StyleKindImage StyleKind = "image"
	StyleKindText  StyleKind = "text"
)

// Style is a library entry describing a visual style.
type Style struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Kind     StyleKind `json:"kind"`
	ImageURL string    `json:"image_url,omitempty"`
	Content  string    `json:"content,omitempty"`
}

// Validate checks that the style carries the payload its kind requires.
func (s Style) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: style id is empty", ErrValidation)
	}
	switch s.Kind {
	case StyleKindImage:
		if s.ImageURL == "" {
			return fmt.Errorf("%w: image style %s has no image url", ErrValidation, s.ID)
		}
	case StyleKindText:
		if s.Content == "" {
			return fmt.Errorf("%w: text style %s has no content", ErrValidation, s.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStyleKind, s.Kind)
	}
	return nil
}
