// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and C4H_ environment variables.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// DataDir is where relative event file paths are resolved.
	DataDir string `koanf:"data_dir"`

	// ArticlesFile is the reference article file loaded by commands that need it.
	ArticlesFile string `koanf:"articles_file"`

	// DefaultArena creates arena "1" in every new event.
	DefaultArena bool `koanf:"default_arena"`

	// Indent is the YAML indentation width of written files.
	Indent int `koanf:"indent"`

	// MetricsTextfile, when set, receives a Prometheus textfile dump after each command.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		DataDir:      ".",
		ArticlesFile: "EA_articles.c4ha",
		DefaultArena: true,
		Indent:       2,
	}
}
