package imageprocessor

import (
	"errors"
	"fmt"
)

// DecodeError reports an image that could not be read or decoded
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to load image: %s", e.Path)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DimensionError reports an input whose size leaves a score undefined
type DimensionError struct {
	Op     string
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: zero-area input (%dx%d)", e.Op, e.Width, e.Height)
}

// ConfigError reports an invalid option value
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// newImageLoadError creates a standardized error for image loading failures
func newImageLoadError(message, path string) error {
	return &DecodeError{Path: path, Err: errors.New(message)}
}
