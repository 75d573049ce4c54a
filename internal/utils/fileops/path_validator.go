package fileops

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// PathValidator provides centralized path validation and cleaning functionality
type PathValidator struct {
	fs afero.Fs
}

// NewPathValidator creates a validator over fs
func NewPathValidator(fs afero.Fs) *PathValidator {
	return &PathValidator{fs: fs}
}

// ValidateAndClean validates and cleans a path that must exist
func (pv *PathValidator) ValidateAndClean(path string) (string, error) {
	cleanPath, err := pv.ValidateAndCleanOptional(path)
	if err != nil {
		return "", err
	}

	if !pv.Exists(cleanPath) {
		return "", fmt.Errorf("path does not exist: %s", cleanPath)
	}

	return cleanPath, nil
}

// ValidateAndCleanOptional validates and cleans a path but doesn't require it to exist
func (pv *PathValidator) ValidateAndCleanOptional(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)

	// only a leading .. is allowed
	if strings.Contains(cleanPath, "..") && !strings.HasPrefix(cleanPath, "..") {
		return "", fmt.Errorf("path traversal not allowed in path: %s", path)
	}

	return cleanPath, nil
}

// Exists checks if a path exists
func (pv *PathValidator) Exists(path string) bool {
	ok, err := afero.Exists(pv.fs, path)
	return err == nil && ok
}

// IsDir checks if a path exists and is a directory
func (pv *PathValidator) IsDir(path string) bool {
	ok, err := afero.IsDir(pv.fs, path)
	return err == nil && ok
}

// IsFile checks if a path exists and is a regular file
func (pv *PathValidator) IsFile(path string) bool {
	info, err := pv.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Within reports whether path is inside root
func (pv *PathValidator) Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
