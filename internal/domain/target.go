package domain

// GenerationMode selects synchronous image generation or asynchronous video generation.
type GenerationMode string

// Possible generation modes
const (
	GenerationModeImage GenerationMode = "image"
	GenerationModeVideo GenerationMode = "video"
)

// Shot holds the structured, mostly free-text, description of one frame.
type Shot struct {
	SceneType    string        `json:"scene_type,omitempty"`
	Composition  string        `json:"composition,omitempty"`
	Characters   []string      `json:"characters,omitempty"`
	Action       string        `json:"action,omitempty"`
	Appearance   string        `json:"appearance,omitempty"`
	SceneSetting string        `json:"scene_setting,omitempty"`
	Props        []string      `json:"props,omitempty"`
	Lighting     string        `json:"lighting,omitempty"`
	Mood         string        `json:"mood,omitempty"`
	References   *ReferenceSet `json:"references,omitempty"`
}

// GenerationRequest is the caller-supplied payload of a target.
type GenerationRequest struct {
	// Prompt is used verbatim for targets without a shot (characters, props, ...).
	Prompt string `json:"prompt,omitempty"`

	// Shot is set for frame and video targets.
	Shot *Shot `json:"shot,omitempty"`

	// StyleID is the per-item style override.
	StyleID string `json:"style_id,omitempty"`

	// ReferenceImageURLs are extra images for targets without a shot.
	ReferenceImageURLs []string `json:"reference_image_urls,omitempty"`

	Mode GenerationMode `json:"mode,omitempty"`
}

// GenerationTarget is one schedulable unit of work.
type GenerationTarget struct {
	ID      string            `json:"id"`
	Type    AssetType         `json:"type"`
	Name    string            `json:"name"`
	Request GenerationRequest `json:"request"`
}

// Validate checks the target is schedulable.
func (t GenerationTarget) Validate() error {
	if t.ID == "" {
		return ErrEmptyTargetID
	}
	if !t.Type.IsValid() {
		return ErrInvalidAssetType
	}
	return nil
}

// Label returns the name used in progress reports.
func (t GenerationTarget) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}

// GenerationSettings are the cross-asset-type settings handed to every batch
// run or single call.
type GenerationSettings struct {
	DefaultStyleID string `json:"default_style_id,omitempty"`
	ImageModel     string `json:"image_model,omitempty"`
	VideoModel     string `json:"video_model,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	// Variants is the number of outputs requested per item.
	Variants int `json:"variants,omitempty"`
}
