package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the configuration file at path, translates it into the
	// format-agnostic model and checks value domains.
	Load(ctx context.Context, path string) (*Model, error)
}
