// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ConfigExtensions lists the file extensions treated as configuration files.
var ConfigExtensions = []string{".hcl", ".json"}

// FindConfigFiles expands paths into configuration files. Files are taken
// as given, whatever their extension; directories are searched recursively
// for files with one of ConfigExtensions. The result is sorted and free of
// duplicates.
func FindConfigFiles(paths ...string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && slices.Contains(ConfigExtensions, strings.ToLower(filepath.Ext(d.Name()))) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return files, nil
}
