// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the launchpad command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}
	var sess *session

	rootCmd := &cobra.Command{
		Use:   "launchpad",
		Short: "Generate fabric.mod.json from a mod descriptor",
		Long: TitleStyle.Render("launchpad") + SubtitleStyle.Render(" - fabric.mod.json generator") + `

launchpad reads a mod descriptor (fabric.mod.cue, fabric.mod.toml or
fabric.mod.yaml) and keeps build/generated-sources/fabric-mod-metadata/fabric.mod.json
in sync with it. The file is only rewritten when its content changes, so
builds that depend on it stay incremental.

` + SubtitleStyle.Render("Examples:") + `
  launchpad generate           Write fabric.mod.json if it is out of date
  launchpad generate --watch   Regenerate whenever the descriptor changes
  launchpad check              Exit 1 when fabric.mod.json is out of date
  launchpad build              Generate metadata and process resources
  launchpad config show        Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := app.loadSession(cmd.Context(), flags)
			if err != nil {
				setupLogging(cmd.ErrOrStderr(), "", flags.verbose)
				return fail(cmd, flags, err)
			}
			sess = loaded
			setupLogging(cmd.ErrOrStderr(), sess.cfg.LogLevel, flags.verbose)
			return nil
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is launchpad.cue in the project and user config directories)")
	rootCmd.PersistentFlags().StringVarP(&flags.projectDir, "project-dir", "C", "", "project directory (default is the working directory)")

	current := func() *session { return sess }
	rootCmd.AddCommand(
		newGenerateCommand(app, flags, current),
		newCheckCommand(flags, current),
		newValidateCommand(flags),
		newBuildCommand(app, flags, current),
		newTasksCommand(flags, current),
		newConfigCommand(app, flags, current),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(NewApp(Dependencies{})),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
