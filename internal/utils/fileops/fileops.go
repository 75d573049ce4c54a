// Package fileops wraps an afero filesystem with path validation, error
// wrapping and a read cache. Writers and the generator share one FileOps
// so tests can run on an in-memory filesystem.
package fileops

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"

	"github.com/toyz/pystubgen/internal/utils"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// FileOps provides a unified interface for common file operations
// combining path validation, error handling, and caching
type FileOps struct {
	fs            afero.Fs
	pathValidator *PathValidator
	errorWrapper  *ErrorWrapper
	contents      *utils.Cache[string, []byte]
}

// NewFileOps creates a new FileOps instance over fs
func NewFileOps(fs afero.Fs) *FileOps {
	return &FileOps{
		fs:            fs,
		pathValidator: NewPathValidator(fs),
		errorWrapper:  NewErrorWrapper(),
		contents:      utils.NewCache[string, []byte](),
	}
}

// NewOsFileOps works on the real filesystem
func NewOsFileOps() *FileOps {
	return NewFileOps(afero.NewOsFs())
}

// Fs returns the underlying filesystem
func (fo *FileOps) Fs() afero.Fs {
	return fo.fs
}

// PathValidator returns the path validator instance
func (fo *FileOps) PathValidator() *PathValidator {
	return fo.pathValidator
}

// ReadFile reads a file, caching its contents until the file is written
func (fo *FileOps) ReadFile(filePath string) ([]byte, error) {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return nil, fo.errorWrapper.WrapFileReadError(filePath, err)
	}

	if cached, ok := fo.contents.Get(cleanPath); ok {
		return cached, nil
	}

	content, err := afero.ReadFile(fo.fs, cleanPath)
	if err != nil {
		return nil, fo.errorWrapper.WrapFileReadError(cleanPath, err)
	}
	fo.contents.Set(cleanPath, content)
	return content, nil
}

// WriteFile creates parent directories and writes content. It reports
// whether the file changed; identical content is left untouched.
func (fo *FileOps) WriteFile(filePath string, content []byte) (bool, error) {
	cleanPath, err := fo.pathValidator.ValidateAndCleanOptional(filePath)
	if err != nil {
		return false, fo.errorWrapper.WrapFileWriteError(filePath, err)
	}

	if fo.pathValidator.IsFile(cleanPath) {
		existing, err := fo.ReadFile(cleanPath)
		if err == nil && bytes.Equal(existing, content) {
			return false, nil
		}
	}

	if err := fo.MkdirAll(filepath.Dir(cleanPath)); err != nil {
		return false, err
	}
	if err := afero.WriteFile(fo.fs, cleanPath, content, filePerm); err != nil {
		return false, fo.errorWrapper.WrapFileWriteError(cleanPath, err)
	}
	fo.contents.Set(cleanPath, append([]byte(nil), content...))
	return true, nil
}

// MkdirAll creates a directory tree
func (fo *FileOps) MkdirAll(dirPath string) error {
	if err := fo.fs.MkdirAll(dirPath, dirPerm); err != nil {
		return fo.errorWrapper.WrapDirectoryCreateError(dirPath, err)
	}
	return nil
}

// RemoveFile removes a file with path validation and error handling
func (fo *FileOps) RemoveFile(filePath string) error {
	cleanPath, err := fo.pathValidator.ValidateAndClean(filePath)
	if err != nil {
		return fo.errorWrapper.WrapFileRemovalError(filePath, err)
	}

	if err := fo.fs.Remove(cleanPath); err != nil {
		return fo.errorWrapper.WrapFileRemovalError(cleanPath, err)
	}
	fo.contents.Delete(cleanPath)
	return nil
}

// RemoveAll removes a directory tree. A missing directory is not an error.
func (fo *FileOps) RemoveAll(dirPath string) error {
	if err := fo.fs.RemoveAll(dirPath); err != nil {
		return fo.errorWrapper.WrapFileRemovalError(dirPath, err)
	}
	fo.contents.Clear()
	return nil
}

// ListFiles returns every regular file under dirPath, sorted. A missing
// directory has no files.
func (fo *FileOps) ListFiles(dirPath string) ([]string, error) {
	if !fo.pathValidator.IsDir(dirPath) {
		return nil, nil
	}

	var files []string
	err := afero.Walk(fo.fs, dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fo.errorWrapper.WrapDirectoryReadError(dirPath, err)
	}
	sort.Strings(files)
	return files, nil
}

// ListEntries returns the direct children of dirPath sorted by name
func (fo *FileOps) ListEntries(dirPath string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fo.fs, dirPath)
	if err != nil {
		return nil, fo.errorWrapper.WrapDirectoryReadError(dirPath, err)
	}
	return entries, nil
}

// TempDir creates a new temporary directory whose name starts with prefix
func (fo *FileOps) TempDir(prefix string) (string, error) {
	dir, err := afero.TempDir(fo.fs, "", prefix)
	if err != nil {
		return "", fo.errorWrapper.WrapDirectoryCreateError(prefix, err)
	}
	return dir, nil
}

// Open opens a file for reading
func (fo *FileOps) Open(filePath string) (io.ReadCloser, error) {
	f, err := fo.fs.Open(filePath)
	if err != nil {
		return nil, fo.errorWrapper.WrapFileReadError(filePath, err)
	}
	return f, nil
}

// CopyDir copies every file under src into dst keeping relative paths and
// returns the written destination paths.
func (fo *FileOps) CopyDir(src, dst string) ([]string, error) {
	files, err := fo.ListFiles(src)
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(files))
	for _, file := range files {
		rel, err := filepath.Rel(src, file)
		if err != nil {
			return nil, fo.errorWrapper.WrapCopyError(file, err)
		}
		content, err := fo.ReadFile(file)
		if err != nil {
			return nil, err
		}
		target := filepath.Join(dst, rel)
		if _, err := fo.WriteFile(target, content); err != nil {
			return nil, err
		}
		written = append(written, target)
	}
	return written, nil
}

// Exists checks if a path exists using the path validator
func (fo *FileOps) Exists(path string) bool {
	return fo.pathValidator.Exists(path)
}

// IsDir checks if a path is a directory using the path validator
func (fo *FileOps) IsDir(path string) bool {
	return fo.pathValidator.IsDir(path)
}

// IsFile checks if a path is a regular file using the path validator
func (fo *FileOps) IsFile(path string) bool {
	return fo.pathValidator.IsFile(path)
}
