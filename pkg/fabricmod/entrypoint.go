// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// DefaultAdapter is the language adapter used when an entry point names none.
const DefaultAdapter = "default"

// Wire keys of the entry point groups with a dedicated slot.
const (
	entryPointsMain   = "main"
	entryPointsServer = "server"
	entryPointsClient = "client"
)

// ErrInvalidEntryPoint is returned when an entry point has an empty value.
var ErrInvalidEntryPoint = errors.New("invalid entry point")

var entryPointKeys = []string{entryPointsMain, entryPointsServer, entryPointsClient}

type (
	// EntryPoint names code to run at a given stage of loading, for example
	// "net.example.Mod::init" with the "kotlin" adapter.
	// Construct it with NewEntryPoint; the zero value is rejected by New.
	EntryPoint struct {
		value   string
		adapter string
	}

	// EntryPoints groups entry points by the stage that runs them. Common is
	// written under the "main" key. A nil slot is absent; Additional holds
	// groups for other stages, keyed by their wire name.
	EntryPoints struct {
		Common     []EntryPoint
		Server     []EntryPoint
		Client     []EntryPoint
		Additional map[string][]EntryPoint
	}

	// InvalidEntryPointError is returned when an entry point value is empty.
	// It wraps ErrInvalidEntryPoint for errors.Is() compatibility.
	InvalidEntryPointError struct {
		Adapter string
	}
)

// NewEntryPoint returns an entry point. An empty adapter selects DefaultAdapter.
func NewEntryPoint(value, adapter string) (EntryPoint, error) {
	ep := EntryPoint{value: value, adapter: adapter}
	if ep.adapter == "" {
		ep.adapter = DefaultAdapter
	}
	if err := ep.Validate(); err != nil {
		return EntryPoint{}, err
	}
	return ep, nil
}

// Value returns the entry point reference.
func (ep EntryPoint) Value() string { return ep.value }

// Adapter returns the language adapter name.
func (ep EntryPoint) Adapter() string { return ep.adapter }

// Validate returns nil if the entry point value is non-empty.
func (ep EntryPoint) Validate() error {
	if ep.value == "" {
		return &InvalidEntryPointError{Adapter: ep.adapter}
	}
	return nil
}

// String renders the entry point as "adapter:value".
func (ep EntryPoint) String() string { return ep.adapter + ":" + ep.value }

// Error implements the error interface for InvalidEntryPointError.
func (e *InvalidEntryPointError) Error() string {
	return "invalid entry point: value must not be empty"
}

// Unwrap returns ErrInvalidEntryPoint for errors.Is() compatibility.
func (e *InvalidEntryPointError) Unwrap() error { return ErrInvalidEntryPoint }

// Count returns the number of entry points across all groups.
func (eps EntryPoints) Count() int {
	n := len(eps.Common) + len(eps.Server) + len(eps.Client)
	for _, list := range eps.Additional {
		n += len(list)
	}
	return n
}

func (eps EntryPoints) validate() []error {
	var errs []error
	check := func(group string, list []EntryPoint) {
		for i, ep := range list {
			if err := ep.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("entrypoints.%s[%d]: %w", group, i, err))
			}
		}
	}
	check(entryPointsMain, eps.Common)
	check(entryPointsServer, eps.Server)
	check(entryPointsClient, eps.Client)
	for _, k := range sortedKeys(eps.Additional) {
		check(k, eps.Additional[k])
	}
	return append(errs, checkExtensionKeys("entrypoints", eps.Additional, entryPointKeys)...)
}

func (eps EntryPoints) clone() EntryPoints {
	out := EntryPoints{
		Common: slices.Clone(eps.Common),
		Server: slices.Clone(eps.Server),
		Client: slices.Clone(eps.Client),
	}
	if len(eps.Additional) > 0 {
		out.Additional = make(map[string][]EntryPoint, len(eps.Additional))
		for k, v := range eps.Additional {
			out.Additional[k] = slices.Clone(v)
		}
	}
	return out
}

func (eps EntryPoints) equal(other EntryPoints) bool {
	eq := func(a, b []EntryPoint) bool {
		return (a == nil) == (b == nil) && slices.Equal(a, b)
	}
	return eq(eps.Common, other.Common) &&
		eq(eps.Server, other.Server) &&
		eq(eps.Client, other.Client) &&
		maps.EqualFunc(eps.Additional, other.Additional, eq)
}
