// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidModDescriptor is returned when New is given an invalid field.
	ErrInvalidModDescriptor = errors.New("invalid mod descriptor")

	// ErrInvalidSchemaVersion is returned when the schema version is negative.
	ErrInvalidSchemaVersion = errors.New("invalid schema version")

	// ErrInvalidExtensionKey is returned when an extension bag uses an empty key
	// or the name of a known property.
	ErrInvalidExtensionKey = errors.New("invalid extension key")

	// ErrMalformedDocument is returned when a document cannot be decoded into a
	// ModDescriptor.
	ErrMalformedDocument = errors.New("malformed fabric.mod.json document")

	// ErrEncodeDocument is returned when a ModDescriptor cannot be encoded.
	ErrEncodeDocument = errors.New("cannot encode fabric.mod.json document")
)

type (
	// InvalidModDescriptorError is returned by New. It wraps ErrInvalidModDescriptor
	// and every field-level error, so errors.Is matches both the aggregate
	// sentinel and the sentinel of each failing field.
	InvalidModDescriptorError struct {
		FieldErrors []error
	}

	// InvalidSchemaVersionError reports a negative schemaVersion.
	InvalidSchemaVersionError struct {
		Value int
	}

	// InvalidExtensionKeyError reports a rejected key of an extension bag.
	InvalidExtensionKeyError struct {
		Owner string
		Key   string
	}

	// DecodeError reports where decoding a document failed. Path is a dotted
	// location such as "authors[0].contact", empty for the document root.
	DecodeError struct {
		Path string
		Err  error
	}

	// EncodeError reports a failure while turning a ModDescriptor into a document.
	EncodeError struct {
		Err error
	}
)

// Error implements the error interface for InvalidModDescriptorError.
func (e *InvalidModDescriptorError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid mod descriptor: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidModDescriptor followed by the field errors.
func (e *InvalidModDescriptorError) Unwrap() []error {
	return append([]error{ErrInvalidModDescriptor}, e.FieldErrors...)
}

// Error implements the error interface for InvalidSchemaVersionError.
func (e *InvalidSchemaVersionError) Error() string {
	return fmt.Sprintf("invalid schema version %d: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidSchemaVersion for errors.Is() compatibility.
func (e *InvalidSchemaVersionError) Unwrap() error { return ErrInvalidSchemaVersion }

// Error implements the error interface for InvalidExtensionKeyError.
func (e *InvalidExtensionKeyError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("invalid %s extension key: must not be empty", e.Owner)
	}
	return fmt.Sprintf("invalid %s extension key %q: collides with a known property", e.Owner, e.Key)
}

// Unwrap returns ErrInvalidExtensionKey for errors.Is() compatibility.
func (e *InvalidExtensionKeyError) Unwrap() error { return ErrInvalidExtensionKey }

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding fabric.mod.json: %v", e.Err)
	}
	return fmt.Sprintf("decoding fabric.mod.json at %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrMalformedDocument and the underlying cause.
func (e *DecodeError) Unwrap() []error { return []error{ErrMalformedDocument, e.Err} }

// Error implements the error interface for EncodeError.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding fabric.mod.json: %v", e.Err)
}

// Unwrap returns ErrEncodeDocument and the underlying cause.
func (e *EncodeError) Unwrap() []error { return []error{ErrEncodeDocument, e.Err} }

// checkExtensionKeys validates the keys of an extension bag against the
// wire keys of the owning type.
func checkExtensionKeys[V any](owner string, bag map[string]V, known []string) []error {
	var errs []error
	for _, k := range sortedKeys(bag) {
		if k == "" || containsString(known, k) {
			errs = append(errs, &InvalidExtensionKeyError{Owner: owner, Key: k})
		}
	}
	return errs
}
