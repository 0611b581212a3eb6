// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/config"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/types"
)

func newConfigCommand(app *App, flags *rootFlagValues, current func() *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage launchpad configuration",
		Long: `Manage launchpad configuration.

Settings come from built-in defaults, then the user configuration
directory, then launchpad.cue in the project, then LAUNCHPAD_* environment
variables. --config loads a single file instead of both config files.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printConfig(cmd.OutOrStdout(), current())
				return nil
			},
		},
		&cobra.Command{
			Use:   "init",
			Short: "Write a default launchpad.cue into the project",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s := current()
				created, err := config.CreateDefaultConfig(string(s.projectDir))
				if err != nil {
					return fail(cmd, flags, err)
				}
				path := projectConfigPath(s)
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "%s Created %s\n", successIcon, CmdStyle.Render(s.relative(path)))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s already exists\n", skipIcon, CmdStyle.Render(s.relative(path)))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show where configuration files are read from",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				userDir := app.configDir
				if userDir == "" {
					dir, err := config.ConfigDir()
					if err != nil {
						return fail(cmd, flags, err)
					}
					userDir = types.FilesystemPath(dir)
				}
				w := cmd.OutOrStdout()
				if flags.configPath != "" {
					fmt.Fprintf(w, "config:  %s\n", flags.configPath)
					return nil
				}
				fmt.Fprintf(w, "user:    %s\n", fspath.JoinStr(userDir, configFile()))
				fmt.Fprintf(w, "project: %s\n", projectConfigPath(current()))
				return nil
			},
		},
	)
	return cmd
}

func configFile() string { return config.ConfigFileName + "." + config.ConfigFileExt }

func projectConfigPath(s *session) types.FilesystemPath {
	return fspath.JoinStr(s.projectDir, configFile())
}

func printConfig(w io.Writer, s *session) {
	cfg := s.cfg
	row := func(key, value string) {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render(fmt.Sprintf("%-20s", key+":")), value)
	}
	paths := func(ps []types.FilesystemPath) string {
		rels := make([]string, len(ps))
		for i, p := range ps {
			rels[i] = s.relative(p)
		}
		return strings.Join(rels, ", ")
	}

	fmt.Fprintln(w, TitleStyle.Render("Configuration"))
	fmt.Fprintln(w)
	row("project", string(s.projectDir))
	row("descriptor", s.relative(cfg.Descriptor))
	row("output_dir", s.relative(cfg.OutputDir))
	row("pretty_print", fmt.Sprint(cfg.PrettyPrint))
	row("resources.dirs", paths(cfg.Resources.Dirs))
	row("resources.output_dir", s.relative(cfg.Resources.OutputDir))
	row("watch.debounce", cfg.Watch.Debounce.String())
	row("watch.ignore", strings.Join(cfg.Watch.Ignore, ", "))
	row("log_level", cfg.LogLevel.String())
}
