package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNoOutput is returned when a response carries no image or video.
	ErrNoOutput = errors.New("response contains no generated output")

	// ErrUnsupportedReference is returned when a reference image URL uses an unknown scheme.
	ErrUnsupportedReference = errors.New("unsupported reference image url")

	// ErrReferenceFetch is returned when a reference image cannot be downloaded.
	ErrReferenceFetch = errors.New("failed to fetch reference image")
)
