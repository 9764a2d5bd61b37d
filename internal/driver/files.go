package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"pcrelint/internal/config"
)

// ErrNoFiles is returned when the target holds no file to analyse.
var ErrNoFiles = errors.New("no PHP files found")

// listFiles returns the files under root that settings include, sorted.
// A root naming a single file is returned as is, whatever its extension.
// baseDir is the directory relative paths are computed against.
func listFiles(root string, settings config.Settings) (files []string, baseDir string, err error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, filepath.Dir(root), nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel != "." && settings.Excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && settings.Included(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to walk %s: %w", root, err)
	}

	// deterministic order
	sort.Strings(files)
	return files, root, nil
}
