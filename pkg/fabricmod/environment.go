// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
)

const (
	// EnvironmentEither runs the mod on both sides. It is the default.
	EnvironmentEither Environment = "*"
	// EnvironmentClient runs the mod on the physical client only.
	EnvironmentClient Environment = "client"
	// EnvironmentServer runs the mod on the dedicated server only.
	EnvironmentServer Environment = "server"
)

// ErrInvalidEnvironment is returned when an Environment is not one of the known values.
var ErrInvalidEnvironment = errors.New("invalid environment")

type (
	// Environment is the side a mod (or a mixin configuration) applies to.
	// The empty value means EnvironmentEither.
	Environment string

	// InvalidEnvironmentError is returned when an Environment value is not
	// recognized. It wraps ErrInvalidEnvironment for errors.Is() compatibility.
	InvalidEnvironmentError struct {
		Value Environment
	}
)

// String returns the wire form of the environment.
func (e Environment) String() string { return string(e.orDefault()) }

// Validate returns nil for "", "*", "client" and "server".
func (e Environment) Validate() error {
	switch e {
	case "", EnvironmentEither, EnvironmentClient, EnvironmentServer:
		return nil
	default:
		return &InvalidEnvironmentError{Value: e}
	}
}

func (e Environment) orDefault() Environment {
	if e == "" {
		return EnvironmentEither
	}
	return e
}

// Error implements the error interface for InvalidEnvironmentError.
func (e *InvalidEnvironmentError) Error() string {
	return fmt.Sprintf("invalid environment %q (valid: *, client, server)", string(e.Value))
}

// Unwrap returns ErrInvalidEnvironment for errors.Is() compatibility.
func (e *InvalidEnvironmentError) Unwrap() error { return ErrInvalidEnvironment }
