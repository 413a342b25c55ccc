// Package parsererror defines the typed errors that cross package boundaries.
// Recoverable per-row conditions are not errors; they travel as diagnostics.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrNoText is wrapped by InputUnreadableError when the source produced no usable text.
var ErrNoText = errors.New("no extractable text")

// ParseError represents a field value that could not be converted.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InputUnreadableError is the only failure surfaced by a parse: the input was
// empty or its text could not be obtained.
type InputUnreadableError struct {
	Source string
	Reason string
	Err    error
}

func (e *InputUnreadableError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s is unreadable: %s: %v", src, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s is unreadable: %s", src, e.Reason)
}

func (e *InputUnreadableError) Unwrap() error {
	return e.Err
}

// UnknownLayoutError is returned when a caller names a layout that is not registered.
type UnknownLayoutError struct {
	ID string
}

func (e *UnknownLayoutError) Error() string {
	return fmt.Sprintf("unknown bank layout %q", e.ID)
}

// InvalidFormatError reports a file that does not have the expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExtractionError reports a failure of a page text extraction tool.
type ExtractionError struct {
	FilePath string
	Tool     string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s could not extract text from '%s': %v", e.Tool, e.FilePath, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CategorizationError represents a categorization strategy failure.
type CategorizationError struct {
	Description string
	Strategy    string
	Err         error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("categorization failed for %q using %s: %v",
		e.Description, e.Strategy, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// StoreError reports a failed read or write of a persisted file.
type StoreError struct {
	Path string
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsInputUnreadable reports whether err is or wraps an InputUnreadableError.
func IsInputUnreadable(err error) bool {
	var target *InputUnreadableError
	return errors.As(err, &target)
}
