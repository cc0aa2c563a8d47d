// Package config loads server, database, Gemini and generation settings from
// an optional config.yaml and STORYBOARD_* environment variables, then
// validates them before any component is constructed.
package config
