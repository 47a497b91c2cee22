package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrRootNotFound     = errors.New("root directory not found")
	ErrUnbalancedBraces = errors.New("closing brace without matching open brace")
	ErrBinaryContent    = errors.New("file looks like binary content")
	ErrFileTimeout      = errors.New("file analysis exceeded its time budget")
)

// ConfigurationError is an invalid option or input root. It is fatal and is
// returned before any file is processed.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FileReadError is a file that could not be read. The file is skipped with a warning.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// DetectorError is a failure inside one detector for one file.
// The file is excluded from aggregates and reported in diagnostics.
type DetectorError struct {
	Path     string
	Detector string
	Err      error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("%s detector failed on %s: %v", e.Detector, e.Path, e.Err)
}

func (e *DetectorError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigurationError from a format string.
func NewConfigError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Err: fmt.Errorf(format, args...)}
}
