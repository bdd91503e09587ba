package app

import (
	"errors"
	"fmt"
	"slices"
)

// LogFormats and LogLevels list the accepted logging settings.
var (
	LogFormats = []string{"text", "json"}
	LogLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath is the generation config file read by Run.
	ConfigPath string
	// Overrides replace top-level config attributes, as name=value.
	Overrides []string
	// Destination, when set, replaces output.destination.
	Destination string
	// Seed, when set, replaces the seed of the config file.
	Seed *uint64
	// DryRun renders every artifact in memory and persists nothing.
	DryRun bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	var errs []error
	if !slices.Contains(LogFormats, cfg.LogFormat) {
		errs = append(errs, fmt.Errorf("invalid log-format %q: must be one of %v", cfg.LogFormat, LogFormats))
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Errorf("invalid log-level %q: must be one of %v", cfg.LogLevel, LogLevels))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}
