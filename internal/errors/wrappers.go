package errors

import "fmt"

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapNetworkError wraps errors returned by remote collaborators
func WrapNetworkError(operation, url string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, url)
	return Wrap(NetworkErrorCode, message, cause).
		WithContext("url", url)
}

// ConfigurationError creates a configuration error
func ConfigurationError(key, message string) *BaseError {
	fullMessage := fmt.Sprintf("configuration error in '%s': %s", key, message)
	return New(ConfigurationErrorCode, fullMessage).
		WithContext("key", key)
}

// IsCode reports whether the first StubError in err's chain carries code
func IsCode(err error, code ErrorCode) bool {
	var se StubError
	if !As(err, &se) {
		return false
	}
	return se.ErrorCode() == code
}
