package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storyboard-api/internal/config"
	"github.com/phrazzld/storyboard-api/internal/generation"
)

// Config holds the settings the Gemini client needs.
type Config struct {
	APIKey     string
	ImageModel string
	VideoModel string

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryDelay is the initial backoff interval.
	RetryDelay time.Duration

	// FetchTimeout bounds each reference image download.
	FetchTimeout time.Duration
	// MaxReferenceBytes caps the size of a downloaded reference image.
	MaxReferenceBytes int64
}

// DefaultConfig returns a Config with sensible defaults and no API key.
func DefaultConfig() Config {
	return Config{
		ImageModel:        "gemini-2.5-flash-image",
		VideoModel:        "veo-3.0-generate-001",
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
		FetchTimeout:      30 * time.Second,
		MaxReferenceBytes: 20 << 20,
	}
}

// ConfigFromLLM builds a Config from the application's LLM settings.
func ConfigFromLLM(llm config.LLMConfig) Config {
	cfg := DefaultConfig()
	cfg.APIKey = llm.GeminiAPIKey
	if llm.ImageModel != "" {
		cfg.ImageModel = llm.ImageModel
	}
	if llm.VideoModel != "" {
		cfg.VideoModel = llm.VideoModel
	}
	cfg.MaxRetries = llm.MaxRetries
	cfg.RetryDelay = time.Duration(llm.RetryDelaySeconds) * time.Second
	return cfg
}

// validateConfig checks that the API key and models are set and repairs
// out-of-range retry settings.
//
// Parameters:
//   - ctx: Context for logging
//   - logger: Logger for recording validation results
//   - cfg: The configuration to validate; retry fields may be rewritten
//
// Returns:
//   - An error wrapping generation.ErrInvalidConfig if validation fails
func validateConfig(ctx context.Context, logger *slog.Logger, cfg *Config) error {
	if cfg.APIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key", "error", "APIKey is empty")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ImageModel == "" || cfg.VideoModel == "" {
		logger.ErrorContext(ctx, "Missing model name",
			"image_model", cfg.ImageModel,
			"video_model", cfg.VideoModel)
		return fmt.Errorf("%w: image and video model names are required", generation.ErrInvalidConfig)
	}

	defaults := DefaultConfig()
	if cfg.MaxRetries < 0 {
		logger.WarnContext(ctx, "Invalid MaxRetries value, using default",
			"value", cfg.MaxRetries,
			"default", defaults.MaxRetries)
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryDelay <= 0 {
		logger.WarnContext(ctx, "Invalid RetryDelay value, using default",
			"value", cfg.RetryDelay,
			"default", defaults.RetryDelay)
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.MaxReferenceBytes <= 0 {
		cfg.MaxReferenceBytes = defaults.MaxReferenceBytes
	}
	return nil
}
