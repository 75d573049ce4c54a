package errors

import (
	"fmt"
	"strings"
)

// TypeAnnotationError reports structural misuse of the type graph,
// e.g. a literal without values or a disabled mutation.
type TypeAnnotationError struct {
	*BaseError
	Annotation string // rendered or named annotation that failed
}

// NewTypeAnnotationError creates a new type annotation error
func NewTypeAnnotationError(annotation, message string) *TypeAnnotationError {
	err := &TypeAnnotationError{
		BaseError:  New(TypeAnnotationErrorCode, message),
		Annotation: annotation,
	}
	if annotation != "" {
		err.WithContext("annotation", annotation)
	}
	return err
}

// Error implements the error interface
func (e *TypeAnnotationError) Error() string {
	if e.Annotation == "" {
		return e.BaseError.Error()
	}
	return fmt.Sprintf("%s: %s", e.Annotation, e.BaseError.Error())
}

// AlreadyPublishedError signals that a package version is already on the
// package index and the caller asked to skip published packages.
type AlreadyPublishedError struct {
	*BaseError
	PackageName string
	Version     string
}

// ErrAlreadyPublished matches any AlreadyPublishedError via errors.Is
var ErrAlreadyPublished = &AlreadyPublishedError{BaseError: New(AlreadyPublishedErrorCode, "already published")}

// NewAlreadyPublishedError creates a new already published error
func NewAlreadyPublishedError(packageName, version string) *AlreadyPublishedError {
	return &AlreadyPublishedError{
		BaseError:   Newf(AlreadyPublishedErrorCode, "%s %s is already on PyPI", packageName, version),
		PackageName: packageName,
		Version:     version,
	}
}

// Is reports whether target is an AlreadyPublishedError
func (e *AlreadyPublishedError) Is(target error) bool {
	_, ok := target.(*AlreadyPublishedError)
	return ok
}

// TemplateError reports template lookup, parse or execution failures
type TemplateError struct {
	*BaseError
	TemplateName string
	Stage        string // lookup, parse or execute
}

// NewTemplateError creates a template error wrapping the cause
func NewTemplateError(templateName, stage string, cause error) *TemplateError {
	return &TemplateError{
		BaseError:    Wrap(TemplateErrorCode, fmt.Sprintf("failed to %s template '%s'", stage, templateName), cause),
		TemplateName: templateName,
		Stage:        stage,
	}
}

// ModelError reports malformed service metadata
type ModelError struct {
	*BaseError
	Service string
	Shape   string
}

// NewModelError creates a new model error
func NewModelError(service, shape, message string) *ModelError {
	err := &ModelError{
		BaseError: New(ModelErrorCode, message),
		Service:   service,
		Shape:     shape,
	}
	err.WithContext("service", service)
	if shape != "" {
		err.WithContext("shape", shape)
	}
	return err
}

// Error implements the error interface
func (e *ModelError) Error() string {
	if e.Shape == "" {
		return fmt.Sprintf("%s: %s", e.Service, e.BaseError.Error())
	}
	return fmt.Sprintf("%s.%s: %s", e.Service, e.Shape, e.BaseError.Error())
}

// ValidationError reports a rendered file that is not valid Python syntax
type ValidationError struct {
	*BaseError
	File string
	Line int
}

// NewValidationError creates a new syntax validation error
func NewValidationError(file string, line int, message string) *ValidationError {
	return &ValidationError{
		BaseError: New(ValidationErrorCode, message),
		File:      file,
		Line:      line,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.BaseError.Error())
	}
	return fmt.Sprintf("%s: %s", e.File, e.BaseError.Error())
}

// SubprocessError captures a failed external command and its output
type SubprocessError struct {
	*BaseError
	Command string
	Output  string
}

// NewSubprocessError creates a new subprocess error
func NewSubprocessError(command, output string, cause error) *SubprocessError {
	return &SubprocessError{
		BaseError: Wrap(SubprocessErrorCode, fmt.Sprintf("command failed: %s", command), cause),
		Command:   command,
		Output:    output,
	}
}

// OutputLines returns captured output split into lines for logging
func (e *SubprocessError) OutputLines() []string {
	trimmed := strings.TrimSpace(e.Output)
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
