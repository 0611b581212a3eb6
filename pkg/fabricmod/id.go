// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidModID is returned when a ModID value does not match the required format.
	ErrInvalidModID = errors.New("invalid mod id")

	// modIDPattern: a lowercase letter followed by 1 to 63 lowercase letters,
	// digits, hyphens or underscores.
	modIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,63}$`)
)

type (
	// ModID is the identifier of a mod, such as "modmenu" or "fabric-api".
	ModID string

	// InvalidModIDError is returned when a ModID value does not match the required
	// format. It wraps ErrInvalidModID for errors.Is() compatibility.
	InvalidModIDError struct {
		Value ModID
	}
)

// String returns the string representation of the ModID.
func (id ModID) String() string { return string(id) }

// Validate returns nil if the ModID is 2 to 64 characters long, starts with a
// lowercase letter and continues with lowercase letters, digits, hyphens or
// underscores.
func (id ModID) Validate() error {
	if !modIDPattern.MatchString(string(id)) {
		return &InvalidModIDError{Value: id}
	}
	return nil
}

// Error implements the error interface for InvalidModIDError.
func (e *InvalidModIDError) Error() string {
	return fmt.Sprintf(
		"invalid mod id %q: must be 2-64 characters, start with a lowercase letter and contain only lowercase letters, digits, '-' or '_'",
		string(e.Value),
	)
}

// Unwrap returns ErrInvalidModID for errors.Is() compatibility.
func (e *InvalidModIDError) Unwrap() error { return ErrInvalidModID }
