package source

import (
	"path/filepath"
	"strings"
)

// AbsolutePath returns the cleaned absolute form of path with forward slashes.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Paths that escape baseDir
// are returned in absolute form instead of as "../.." chains.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return normalizePath(absPath), nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(absPath), nil
	}
	return normalizePath(rel), nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(filepath.FromSlash(path))
}
