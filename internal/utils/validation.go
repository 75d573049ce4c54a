package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toyz/pystubgen/internal/errors"
)

// Validator checks a single configuration value. Failures are
// ConfigurationErrors keyed by the field name.
type Validator[T any] func(T) error

// ValidatorChain allows chaining multiple validators
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs validators in order and stops at the first failure
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.ConfigurationError(field, "cannot be empty")
		}
		return nil
	}
}

// HasPrefix validates that a string has one of the given prefixes
func HasPrefix(field string, prefixes ...string) Validator[string] {
	return func(value string) error {
		for _, prefix := range prefixes {
			if strings.HasPrefix(value, prefix) {
				return nil
			}
		}
		return errors.ConfigurationError(field, fmt.Sprintf("%q must start with one of %s", value, strings.Join(prefixes, ", ")))
	}
}

// MatchesRegex validates that a string matches a regex pattern
func MatchesRegex(field, pattern string) Validator[string] {
	regex := regexp.MustCompile(pattern)
	return func(value string) error {
		if !regex.MatchString(value) {
			return errors.ConfigurationError(field, fmt.Sprintf("%q must match pattern '%s'", value, pattern))
		}
		return nil
	}
}

// IsOneOf validates that a value is one of the allowed values
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return errors.ConfigurationError(field, fmt.Sprintf("%v must be one of %v", value, allowed))
	}
}

// SliceNotEmpty validates that a slice has at least one item
func SliceNotEmpty[T any](field string) Validator[[]T] {
	return func(value []T) error {
		if len(value) == 0 {
			return errors.ConfigurationError(field, "needs at least one value")
		}
		return nil
	}
}

// ValidateEach applies itemValidator to every item
func ValidateEach[T any](itemValidator Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for _, item := range value {
			if err := itemValidator(item); err != nil {
				return err
			}
		}
		return nil
	}
}

// Conditional validates only when enabled is true
func Conditional[T any](enabled bool, validator Validator[T]) Validator[T] {
	return func(value T) error {
		if enabled {
			return validator(value)
		}
		return nil
	}
}

// ValidateServiceName accepts botocore service directory names, e.g.
// "ec2" or "resourcegroupstaggingapi"
func ValidateServiceName(field string) Validator[string] {
	return MatchesRegex(field, `^[a-z0-9][a-z0-9-]*$`)
}

// ValidateHTTPURL accepts absolute http and https URLs
func ValidateHTTPURL(field string) Validator[string] {
	return NewValidatorChain(
		NotEmpty(field),
		HasPrefix(field, "http://", "https://"),
	).Validate
}
