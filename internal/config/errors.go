package config

import (
	"fmt"
)

// ParseError indicates the config file exists but is not well-formed YAML.
type ParseError struct {
	Path string
	Err  error
}

// Error returns the error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parser error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates a required key is absent from the document.
type MissingFieldError struct {
	// Key is the dot-delimited path of the missing key, e.g. "optimizer.params.learning_rate"
	Key string
}

// Error returns the error message
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Key)
}

// TypeMismatchError indicates a key is present but holds a value of the wrong type.
type TypeMismatchError struct {
	// Key is the dot-delimited path of the offending key
	Key string

	// Expected is the semantic type the schema requires, e.g. "positive integer"
	Expected string

	// Actual is the value found in the document
	Actual interface{}
}

// Error returns the error message
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: expected %s, got %v (%T)", e.Key, e.Expected, e.Actual, e.Actual)
}

// InvariantViolationError indicates all keys are present and well-typed but a
// cross-field rule does not hold.
type InvariantViolationError struct {
	// Rule describes the violated rule in plain language
	Rule string
}

// Error returns the error message
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated: %s", e.Rule)
}
