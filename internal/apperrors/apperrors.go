// Package apperrors defines the error taxonomy shared by the core packages
// and the HTTP boundary.
//
// Core packages return errors wrapping one of the sentinel kinds below; the
// transport layer maps kinds to status codes and the stable JSON envelope.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Wrap with %w so callers can classify with errors.Is.
var (
	// ErrNotFound marks absence of a job, result, mark target, or
	// dictionary file on a read path.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks caller input rejected before any state
	// mutation (empty noun, empty dictionary word).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrExternalTool marks a failed external conversion: missing binary,
	// non-zero exit, or missing output artifact.
	ErrExternalTool = errors.New("external tool failure")

	// ErrUnsupportedInput marks a job whose input cannot be processed:
	// unrecognized extension, or zero/multiple input candidates.
	ErrUnsupportedInput = errors.New("unsupported input")
)

// NotFound returns an ErrNotFound wrapping error with a formatted message.
func NotFound(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// InvalidArgument returns an ErrInvalidArgument wrapping error.
func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidArgument)...)
}

// ExternalTool returns an ErrExternalTool wrapping error.
func ExternalTool(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrExternalTool)...)
}

// UnsupportedInput returns an ErrUnsupportedInput wrapping error.
func UnsupportedInput(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnsupportedInput)...)
}

// Code returns the stable machine-readable code for an error.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidArgument):
		return "INVALID_ARGUMENT"
	case errors.Is(err, ErrUnsupportedInput):
		return "UNSUPPORTED_INPUT"
	case errors.Is(err, ErrExternalTool):
		return "EXTERNAL_TOOL"
	default:
		return "INTERNAL_ERROR"
	}
}
