package fileops

import (
	"io/fs"

	"github.com/toyz/pystubgen/internal/errors"
)

// ErrorWrapper turns afero failures into FileSystemErrors that carry the
// operation, the path and a hint for the common causes
type ErrorWrapper struct{}

// NewErrorWrapper creates a new ErrorWrapper instance
func NewErrorWrapper() *ErrorWrapper {
	return &ErrorWrapper{}
}

func (ew *ErrorWrapper) wrap(operation, path string, err error) error {
	wrapped := errors.WrapFileSystemError(operation, path, err)
	switch {
	case errors.Is(err, fs.ErrPermission):
		wrapped.WithSuggestion("Check permissions on " + path)
	case errors.Is(err, fs.ErrNotExist) && operation == "read directory":
		wrapped.WithSuggestion("Check models_path and static_files_path point at existing directories")
	}
	return wrapped
}

// WrapFileReadError wraps file reading errors with context
func (ew *ErrorWrapper) WrapFileReadError(filePath string, err error) error {
	return ew.wrap("read", filePath, err)
}

// WrapFileWriteError wraps file writing errors with context
func (ew *ErrorWrapper) WrapFileWriteError(filePath string, err error) error {
	return ew.wrap("write", filePath, err)
}

// WrapDirectoryReadError wraps directory listing errors with context
func (ew *ErrorWrapper) WrapDirectoryReadError(dirPath string, err error) error {
	return ew.wrap("read directory", dirPath, err)
}

// WrapDirectoryCreateError wraps directory and temp dir creation errors
func (ew *ErrorWrapper) WrapDirectoryCreateError(dirPath string, err error) error {
	return ew.wrap("create directory", dirPath, err)
}

// WrapFileRemovalError wraps removal of stale files and temp dirs
func (ew *ErrorWrapper) WrapFileRemovalError(filePath string, err error) error {
	return ew.wrap("remove", filePath, err)
}

// WrapCopyError wraps static file copy errors
func (ew *ErrorWrapper) WrapCopyError(path string, err error) error {
	return ew.wrap("copy", path, err)
}
