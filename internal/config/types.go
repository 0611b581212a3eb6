// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/types"
)

const (
	// LogLevelDebug logs every generation decision.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs outcomes only.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs recoverable problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	// MetadataFileName is the name of the generated document inside OutputDir.
	MetadataFileName = "fabric.mod.json"
)

var (
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidDebounce is the sentinel error wrapped by InvalidDebounceError.
	ErrInvalidDebounce = errors.New("invalid watch debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel selects the minimum level of the CLI logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidDebounceError is returned for a negative watch debounce.
	InvalidDebounceError struct {
		Value time.Duration
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the project configuration.
	Config struct {
		// Descriptor is the descriptor source file (fabric.mod.cue, .toml or .yaml).
		Descriptor types.FilesystemPath `json:"descriptor" mapstructure:"descriptor"`
		// OutputDir receives fabric.mod.json.
		OutputDir types.FilesystemPath `json:"output_dir" mapstructure:"output_dir"`
		// PrettyPrint indents the generated document with tabs.
		PrettyPrint bool `json:"pretty_print" mapstructure:"pretty_print"`
		// Resources configures resource processing.
		Resources ResourcesConfig `json:"resources" mapstructure:"resources"`
		// Watch configures --watch mode.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
		// LogLevel is the CLI log level; --verbose forces debug.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// ResourcesConfig lists the resource roots copied by the processResources task.
	ResourcesConfig struct {
		Dirs      []types.FilesystemPath `json:"dirs" mapstructure:"dirs"`
		OutputDir types.FilesystemPath   `json:"output_dir" mapstructure:"output_dir"`
	}

	// WatchConfig tunes the file watcher.
	WatchConfig struct {
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore holds extra doublestar patterns excluded from watching.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the LogLevel is not one of the defined levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid watch debounce %s: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Validate checks every field. Paths may be relative; they are resolved
// against the project directory by the caller.
func (c *Config) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{c.Descriptor, c.OutputDir, c.Resources.OutputDir} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, dir := range c.Resources.Dirs {
		if err := dir.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidDebounceError{Value: c.Watch.Debounce})
	}
	if err := c.LogLevel.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// OutputFile returns the path of the generated fabric.mod.json.
func (c *Config) OutputFile() types.FilesystemPath {
	return fspath.JoinStr(c.OutputDir, MetadataFileName)
}

// Resolve returns a copy with every relative path joined to projectDir.
func (c *Config) Resolve(projectDir types.FilesystemPath) *Config {
	resolved := *c
	resolved.Descriptor = fspath.ResolveAgainst(projectDir, c.Descriptor)
	resolved.OutputDir = fspath.ResolveAgainst(projectDir, c.OutputDir)
	resolved.Resources.OutputDir = fspath.ResolveAgainst(projectDir, c.Resources.OutputDir)
	resolved.Resources.Dirs = make([]types.FilesystemPath, len(c.Resources.Dirs))
	for i, dir := range c.Resources.Dirs {
		resolved.Resources.Dirs[i] = fspath.ResolveAgainst(projectDir, dir)
	}
	resolved.Watch.Ignore = append([]string(nil), c.Watch.Ignore...)
	return &resolved
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Descriptor:  "fabric.mod.cue",
		OutputDir:   "build/generated-sources/fabric-mod-metadata",
		PrettyPrint: false,
		Resources: ResourcesConfig{
			Dirs:      []types.FilesystemPath{"src/main/resources"},
			OutputDir: "build/resources/main",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
			Ignore:   []string{},
		},
		LogLevel: LogLevelInfo,
	}
}
