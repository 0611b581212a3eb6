// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/invowk/launchpad/internal/issue"
	"github.com/invowk/launchpad/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "launchpad"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "launchpad"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. LAUNCHPAD_PRETTY_PRINT.
	EnvPrefix = "LAUNCHPAD"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the user-level launchpad configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// loadWithOptions reads, in increasing precedence: defaults, the user-level
// config, the project config (or the explicit file), and LAUNCHPAD_*
// environment variables. It returns the config and the files it merged.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var sources []string
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestions(
					"Verify the file path passed to --config is correct",
					"Run 'launchpad config show' to see the default configuration",
				).
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		if err := mergeFile(v, path); err != nil {
			return nil, nil, err
		}
		sources = append(sources, path)
	} else {
		for _, path := range defaultCandidates(opts) {
			if !fileExists(path) {
				continue
			}
			if err := mergeFile(v, path); err != nil {
				return nil, nil, err
			}
			sources = append(sources, path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestions(
				"Paths must be non-empty",
				"log_level must be one of debug, info, warn, error",
			).
			Wrap(err).
			BuildError()
	}
	return &cfg, sources, nil
}

// defaultCandidates lists the user-level file before the project file so
// that project settings win. Without a user config directory only the
// project file is considered.
func defaultCandidates(opts LoadOptions) []string {
	cfgDir := string(opts.ConfigDirPath)
	if cfgDir == "" {
		if dir, err := ConfigDir(); err == nil {
			cfgDir = dir
		}
	}

	fileName := ConfigFileName + "." + ConfigFileExt
	var candidates []string
	if cfgDir != "" {
		candidates = append(candidates, filepath.Join(cfgDir, fileName))
	}
	return append(candidates, filepath.Join(string(opts.ProjectDir), fileName))
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("descriptor", defaults.Descriptor)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("pretty_print", defaults.PrettyPrint)
	v.SetDefault("resources.dirs", defaults.Resources.Dirs)
	v.SetDefault("resources.output_dir", defaults.Resources.OutputDir)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("log_level", defaults.LogLevel)
}

func mergeFile(v *viper.Viper, path string) error {
	if err := loadCUEIntoViper(v, path); err != nil {
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestions(
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the #Config schema",
			).
			Wrap(err).
			BuildError()
	}
	return nil
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// values over the ones already in v. Fields are optional, so the unified
// value is not required to be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CreateDefaultConfig writes a launchpad.cue holding the defaults into dir
// unless one already exists. It reports whether a file was written.
func CreateDefaultConfig(dir string) (bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return false, nil
	}
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GenerateCUE renders cfg in the launchpad.cue format.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// launchpad project configuration\n\n")
	fmt.Fprintf(&sb, "descriptor: %q\n", cfg.Descriptor)
	fmt.Fprintf(&sb, "output_dir: %q\n", cfg.OutputDir)
	fmt.Fprintf(&sb, "pretty_print: %v\n", cfg.PrettyPrint)

	sb.WriteString("\nresources: {\n")
	sb.WriteString("\tdirs: [")
	for i, dir := range cfg.Resources.Dirs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", dir)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\toutput_dir: %q\n", cfg.Resources.OutputDir)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce.String())
	if len(cfg.Watch.Ignore) > 0 {
		sb.WriteString("\tignore: [")
		for i, pat := range cfg.Watch.Ignore {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", pat)
		}
		sb.WriteString("]\n")
	}
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nlog_level: %q\n", cfg.LogLevel)
	return sb.String()
}
