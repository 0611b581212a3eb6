// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/pipeline"
	"github.com/invowk/launchpad/pkg/types"
)

func newBuildCommand(app *App, flags *rootFlagValues, current func() *session) *cobra.Command {
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "build [task...]",
		Short: "Run the build tasks",
		Long: `Run the build tasks in dependency order.

generateFabricMetadata writes fabric.mod.json; processResources, which runs
after it, mirrors the resource directories and the generated metadata into
resources.output_dir. Tasks whose outputs are current are skipped. Without
arguments every task runs.

Examples:
  launchpad build
  launchpad build generateFabricMetadata
  launchpad build --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := current()
			runner, err := s.newRunner()
			if err != nil {
				return fail(cmd, flags, err)
			}

			run := func(ctx context.Context) error {
				results, err := runner.Run(ctx, args...)
				printResults(cmd.OutOrStdout(), results)
				return err
			}
			if watchMode {
				return runWatch(cmd, flags, s, "build", watchPatterns(s, s.cfg.Descriptor, s.cfg.Resources.Dirs...), run)
			}
			if err := run(cmd.Context()); err != nil {
				return fail(cmd, flags, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rebuild whenever the descriptor or resources change")
	return cmd
}

func newTasksCommand(flags *rootFlagValues, current func() *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the build tasks in execution order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := current().newRunner()
			if err != nil {
				return fail(cmd, flags, err)
			}
			tasks, err := runner.Tasks()
			if err != nil {
				return fail(cmd, flags, err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, TitleStyle.Render("Build tasks"))
			fmt.Fprintln(w)
			for i, t := range tasks {
				fmt.Fprintf(w, "%d. %s\n", i+1, CmdStyle.Render(t.Name))
				fmt.Fprintf(w, "   %s\n", t.Description)
				if len(t.DependsOn) > 0 {
					fmt.Fprintf(w, "   %s %s\n", SubtitleStyle.Render("depends on:"), strings.Join(t.DependsOn, ", "))
				}
			}
			return nil
		},
	}
}

// newRunner registers the standard tasks for the session's configuration.
// The generated metadata directory is the last resource root, so the
// generated fabric.mod.json wins over a hand-written one.
func (s *session) newRunner() (*pipeline.Runner, error) {
	cfg := s.cfg
	dirs := append(append([]types.FilesystemPath(nil), cfg.Resources.Dirs...), cfg.OutputDir)

	runner := pipeline.New(pipeline.WithLogger(slog.Default()))
	err := pipeline.StandardTasks(runner,
		pipeline.GenerateMetadataConfig{
			Source:      pipeline.DescriptorSource(cfg.Descriptor),
			OutputFile:  cfg.OutputFile(),
			PrettyPrint: cfg.PrettyPrint,
		},
		pipeline.ProcessResourcesConfig{
			Dirs:      dirs,
			OutputDir: cfg.Resources.OutputDir,
		},
	)
	if err != nil {
		return nil, err
	}
	return runner, nil
}

func printResults(w io.Writer, results []pipeline.Result) {
	for _, r := range results {
		icon := successIcon
		if !r.DidWork() {
			icon = skipIcon
		}
		fmt.Fprintf(w, "%s %s %s\n", icon, CmdStyle.Render(r.Task), SubtitleStyle.Render("("+r.Status.String()+")"))
	}
}
