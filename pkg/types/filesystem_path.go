// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath represents an absolute or relative filesystem path as it
	// appears in metadata documents (jar entries, mixin configs, icons).
	// A valid path must be non-empty, not whitespace-only and free of NUL bytes.
	// The zero value ("") is invalid.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath value cannot
	// be represented on the wire.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// Validate returns nil if the path is representable, or an
// *InvalidFilesystemPathError describing why it is not.
func (p FilesystemPath) Validate() error {
	switch {
	case strings.TrimSpace(string(p)) == "":
		return &InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}
	case strings.ContainsRune(string(p), 0):
		return &InvalidFilesystemPathError{Value: p, Reason: "must not contain NUL bytes"}
	}
	return nil
}

// EncodePath returns the canonical wire form of p. The canonical form is the
// path text itself, so DecodePath(EncodePath(p)) == p for every valid p.
func EncodePath(p FilesystemPath) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return string(p), nil
}

// DecodePath parses the wire form of a path.
func DecodePath(s string) (FilesystemPath, error) {
	p := FilesystemPath(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler through EncodePath.
func (p FilesystemPath) MarshalText() ([]byte, error) {
	s, err := EncodePath(p)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler through DecodePath.
func (p *FilesystemPath) UnmarshalText(text []byte) error {
	decoded, err := DecodePath(string(text))
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
