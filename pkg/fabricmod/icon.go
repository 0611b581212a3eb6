// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
	"maps"
	"regexp"

	"github.com/invowk/launchpad/pkg/types"
)

var (
	// ErrInvalidIcon is returned when an icon sets neither or both of its forms.
	ErrInvalidIcon = errors.New("invalid icon")

	// ErrInvalidIconSize is returned when a key of an icon size map is not a
	// positive decimal width.
	ErrInvalidIconSize = errors.New("invalid icon size")

	iconSizePattern = regexp.MustCompile(`^[1-9][0-9]*$`)
)

type (
	// Icon is either a single image path or a map from pixel width ("16",
	// "128") to image path. Construct it with NewIcon, IconPath or IconSizes.
	Icon struct {
		path  types.FilesystemPath
		paths map[string]types.FilesystemPath
	}

	// InvalidIconError is returned when an icon does not hold exactly one form.
	// It wraps ErrInvalidIcon for errors.Is() compatibility.
	InvalidIconError struct {
		Reason string
	}

	// InvalidIconSizeError is returned for a size key that is not a positive
	// decimal number. It wraps ErrInvalidIconSize for errors.Is() compatibility.
	InvalidIconSizeError struct {
		Key string
	}
)

// NewIcon returns an icon holding exactly one of path and paths. A non-nil
// empty paths map counts as set.
func NewIcon(path types.FilesystemPath, paths map[string]types.FilesystemPath) (Icon, error) {
	switch {
	case path == "" && paths == nil:
		return Icon{}, &InvalidIconError{Reason: "either a path or a size map is required"}
	case path != "" && paths != nil:
		return Icon{}, &InvalidIconError{Reason: "a path and a size map are mutually exclusive"}
	}

	icon := Icon{path: path, paths: maps.Clone(paths)}
	if err := icon.Validate(); err != nil {
		return Icon{}, err
	}
	return icon, nil
}

// IconPath returns an icon with a single image.
func IconPath(path types.FilesystemPath) (Icon, error) { return NewIcon(path, nil) }

// IconSizes returns an icon with one image per width.
func IconSizes(paths map[string]types.FilesystemPath) (Icon, error) {
	if paths == nil {
		paths = map[string]types.FilesystemPath{}
	}
	return NewIcon("", paths)
}

// Path returns the single image path, if this icon has one.
func (i Icon) Path() (types.FilesystemPath, bool) { return i.path, i.paths == nil && i.path != "" }

// Paths returns a copy of the size map, or nil when the icon is a single path.
func (i Icon) Paths() map[string]types.FilesystemPath { return maps.Clone(i.paths) }

// Validate returns nil if the icon holds exactly one form with valid contents.
func (i Icon) Validate() error {
	if (i.path == "") == (i.paths == nil) {
		return &InvalidIconError{Reason: "exactly one of a path or a size map is required"}
	}
	if i.path != "" {
		if err := i.path.Validate(); err != nil {
			return fmt.Errorf("icon: %w", err)
		}
		return nil
	}

	var errs []error
	for _, k := range sortedKeys(i.paths) {
		if !iconSizePattern.MatchString(k) {
			errs = append(errs, &InvalidIconSizeError{Key: k})
			continue
		}
		if err := i.paths[k].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("icon %s: %w", k, err))
		}
	}
	return errors.Join(errs...)
}

func (i Icon) equal(other Icon) bool {
	return i.path == other.path &&
		(i.paths == nil) == (other.paths == nil) &&
		maps.Equal(i.paths, other.paths)
}

// Error implements the error interface for InvalidIconError.
func (e *InvalidIconError) Error() string {
	return "invalid icon: " + e.Reason
}

// Unwrap returns ErrInvalidIcon for errors.Is() compatibility.
func (e *InvalidIconError) Unwrap() error { return ErrInvalidIcon }

// Error implements the error interface for InvalidIconSizeError.
func (e *InvalidIconSizeError) Error() string {
	return fmt.Sprintf("invalid icon size %q: must be a positive width such as \"16\" or \"128\"", e.Key)
}

// Unwrap returns ErrInvalidIconSize for errors.Is() compatibility.
func (e *InvalidIconSizeError) Unwrap() error { return ErrInvalidIconSize }
