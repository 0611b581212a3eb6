// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	goerrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ErrInvalidCUEPath is returned when a CUEPath is empty or whitespace-only.
var ErrInvalidCUEPath = goerrors.New("invalid CUE path")

type (
	// CUEPath is the JSON-path style location of a value, such as
	// "authors[0].contact.email".
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath is empty or whitespace-only.
	// It wraps ErrInvalidCUEPath for errors.Is() compatibility.
	InvalidCUEPathError struct {
		Value CUEPath
	}

	// ValidationError represents a CUE validation error with context.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string

		// CUEPath is the path to the invalid value; empty for the root.
		CUEPath CUEPath

		// Message is the validation error message.
		Message string

		// Suggestion is an optional hint for fixing the error.
		Suggestion string
	}
)

// String returns the path text.
func (p CUEPath) String() string { return string(p) }

// Validate returns nil if the path has non-whitespace content.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidCUEPathError.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must not be empty", string(e.Value))
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Unwrap returns nil (ValidationError is a leaf error).
func (e *ValidationError) Unwrap() error {
	return nil
}

// FormatError converts a CUE error into *ValidationError values with
// JSON-path locations:
//
//   - launchpad.cue: watch.debounce: conflicting values "soon" and =~"^[0-9]+(ms|s|m)$"
//   - fabric.mod.json: authors[0].contact.email: conflicting values 1 and string
//
// A single CUE error is returned as one *ValidationError; several are
// returned joined under a "validation failed" header.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	details := make([]error, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)

		// CUE sometimes repeats the path at the start of the message
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		details = append(details, &ValidationError{
			FilePath: filePath,
			CUEPath:  CUEPath(pathStr),
			Message:  msg,
		})
	}

	if len(details) == 1 {
		return details[0]
	}
	return fmt.Errorf("%s: validation failed:\n%w", filePath, goerrors.Join(details...))
}

// formatPath converts a CUE error path to JSON-path notation: CUE reports
// ["authors", "0", "name"] and users read "authors[0].name".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
