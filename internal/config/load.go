package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// STORYBOARD_SERVER_PORT or STORYBOARD_LLM_GEMINI_API_KEY.
const EnvPrefix = "STORYBOARD"

// defaults registers a value for every key. Viper only maps environment
// variables onto keys it already knows about during Unmarshal.
var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.shutdown_timeout":             "15s",
	"database.url":                        "",
	"llm.gemini_api_key":                  "",
	"llm.image_model":                     "gemini-2.5-flash-image",
	"llm.video_model":                     "veo-3.0-generate-001",
	"llm.max_retries":                     3,
	"llm.retry_delay_seconds":             2,
	"generation.concurrency_width":        3,
	"generation.poll_interval":            "5s",
	"generation.poll_error_interval":      "10s",
	"generation.dispatch_rate_per_second": 0.0,
	"generation.default_style_id":         "",
	"generation.aspect_ratio":             "16:9",
	"generation.variants":                 1,
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path looks for
// an optional config.yaml in the working directory.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Generation.PollErrorInterval < cfg.Generation.PollInterval {
		return nil, fmt.Errorf(
			"config validation failed: poll_error_interval (%s) must not be shorter than poll_interval (%s)",
			cfg.Generation.PollErrorInterval,
			cfg.Generation.PollInterval,
		)
	}

	return &cfg, nil
}
