package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Dir stores artifacts as files in a local directory.
type Dir struct {
	path string
}

// NewDir creates path if needed and returns a store rooted there.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Put implements Store.
func (d *Dir) Put(_ context.Context, name string, data []byte) error {
	if err := os.WriteFile(d.Location(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", name, err)
	}
	return nil
}

// Location implements Store.
func (d *Dir) Location(name string) string {
	return filepath.Join(d.path, name)
}
