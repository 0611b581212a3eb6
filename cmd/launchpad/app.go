// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/invowk/launchpad/internal/config"
	"github.com/invowk/launchpad/internal/issue"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/types"
)

type (
	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every command handler receives an App reference.
	App struct {
		Config    ConfigProvider
		configDir types.FilesystemPath
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// ConfigDir overrides the user-level configuration directory.
		ConfigDir types.FilesystemPath
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// rootFlagValues holds the persistent flags shared by every command.
	rootFlagValues struct {
		configPath string
		projectDir string
		verbose    bool
	}

	// session is the configuration of one invocation, resolved against the
	// project directory.
	session struct {
		projectDir types.FilesystemPath
		cfg        *config.Config
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:    deps.Config,
		configDir: deps.ConfigDir,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// loadSession resolves the project directory and loads its configuration.
func (a *App) loadSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	dir := flags.projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, issue.WrapWithOperation(err, "get working directory")
		}
		dir = wd
	}
	projectDir, err := fspath.Abs(types.FilesystemPath(dir))
	if err != nil {
		return nil, issue.WrapWithContext(err, "resolve project directory", dir)
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(flags.configPath),
		ConfigDirPath:  a.configDir,
		ProjectDir:     projectDir,
	})
	if err != nil {
		return nil, err
	}
	return &session{projectDir: projectDir, cfg: cfg.Resolve(projectDir)}, nil
}

// relative shortens p for display when it lies under the project directory.
func (s *session) relative(p types.FilesystemPath) string {
	rel, err := fspath.Rel(s.projectDir, p)
	if err != nil || strings.HasPrefix(string(rel), "..") {
		return string(p)
	}
	return string(rel)
}
