package config

import (
	"time"

	"github.com/phrazzld/storyboard-api/internal/domain"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory asset store.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// LLMConfig contains the Gemini integration settings.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	ImageModel        string `mapstructure:"image_model" validate:"required"`
	VideoModel        string `mapstructure:"video_model" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// GenerationConfig controls batch scheduling and task polling.
type GenerationConfig struct {
	ConcurrencyWidth int `mapstructure:"concurrency_width" validate:"gte=1,lte=16"`

	PollInterval      time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	PollErrorInterval time.Duration `mapstructure:"poll_error_interval" validate:"gt=0"`

	// DispatchRatePerSecond caps remote calls per second; 0 means unlimited.
	DispatchRatePerSecond float64 `mapstructure:"dispatch_rate_per_second" validate:"gte=0"`

	DefaultStyleID string `mapstructure:"default_style_id"`
	AspectRatio    string `mapstructure:"aspect_ratio" validate:"omitempty,oneof=1:1 3:4 4:3 9:16 16:9"`
	Variants       int    `mapstructure:"variants" validate:"gte=1,lte=4"`
}

// Settings builds the default generation settings handed to each run.
func (g GenerationConfig) Settings(llm LLMConfig) domain.GenerationSettings {
	return domain.GenerationSettings{
		DefaultStyleID: g.DefaultStyleID,
		ImageModel:     llm.ImageModel,
		VideoModel:     llm.VideoModel,
		AspectRatio:    g.AspectRatio,
		Variants:       g.Variants,
	}
}
