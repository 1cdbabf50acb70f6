// Package errors provides the error taxonomy shared by the fla parser,
// renderers and command-line tools.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrSyntax indicates the input does not match the fla grammar
	ErrSyntax = errors.New("syntax error")
	// ErrEmptyKey indicates a pair whose key has no segments left after cleaning
	ErrEmptyKey = errors.New("empty key")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates a grammar/builder mismatch or other internal error
	ErrInternal = errors.New("internal error")
	// ErrUnsupported indicates an unsupported mode or format
	ErrUnsupported = errors.New("unsupported")
)

// SyntaxError reports input that the grammar rejected.
type SyntaxError struct {
	File    string // Source name, may be empty
	Line    int    // 1-based line
	Column  int    // 1-based column
	Offset  int    // Byte offset into the source
	Message string // Parser message
	Err     error  // Underlying parser error, if any
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrSyntax
}

// Is lets errors.Is match ErrSyntax even when Err holds the parser error.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// EmptyKeyError reports a pair whose key was reduced to zero segments.
type EmptyKeyError struct {
	Index int    // 1-based position of the pair among the rendered pairs
	Mode  string // Renderer that refused it
}

func (e *EmptyKeyError) Error() string {
	return fmt.Sprintf("%s: pair %d has an empty key", e.Mode, e.Index)
}

func (e *EmptyKeyError) Unwrap() error {
	return ErrEmptyKey
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// InvariantError is raised when the concrete tree holds a shape the grammar
// can never produce.
type InvariantError struct {
	Where   string // Component that detected the mismatch
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Where, e.Message)
}

func (e *InvariantError) Unwrap() error {
	return ErrInternal
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// ParseError represents a failure to decode a non-fla format such as a
// debug dump.
type ParseError struct {
	Format  string // Format being parsed (e.g., "debug dump")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// Is reports ErrInvalidInput for every ParseError, including those that
// carry a decoder error.
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewEmptyKey creates an EmptyKeyError
func NewEmptyKey(mode string, index int) *EmptyKeyError {
	return &EmptyKeyError{
		Index: index,
		Mode:  mode,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewInvariant creates an InvariantError
func NewInvariant(where, format string, args ...interface{}) *InvariantError {
	return &InvariantError{
		Where:   where,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
