// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/issue"
	"github.com/invowk/launchpad/internal/modsource"
	"github.com/invowk/launchpad/pkg/generate"
	"github.com/invowk/launchpad/pkg/types"
)

func newCheckCommand(flags *rootFlagValues, current func() *session) *cobra.Command {
	gf := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that fabric.mod.json matches the descriptor",
		Long: `Check that fabric.mod.json matches the descriptor without writing it.

Exits with status 0 when the generated file is current and 1 when
'launchpad generate' would change it. Useful as a CI step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := current()
			req := s.generateRequest(cmd, gf)
			stdout := cmd.OutOrStdout()

			desired, err := modsource.Load(req.descriptor)
			if err != nil {
				return fail(cmd, flags, err)
			}

			out := CmdStyle.Render(s.relative(req.outputFile))
			if generate.IsCurrent(desired, req.outputFile) {
				fmt.Fprintf(stdout, "%s %s is up to date\n", successIcon, out)
				return nil
			}

			if desired == nil {
				fmt.Fprintf(stdout, "%s %s is stale: no descriptor at %s\n", warningIcon, out, s.relative(req.descriptor))
			} else {
				fmt.Fprintf(stdout, "%s %s is out of date\n", warningIcon, out)
			}
			if rendered, renderErr := issue.Get(issue.MetadataOutOfDateId).Render(issueStyle); renderErr == nil {
				fmt.Fprint(cmd.ErrOrStderr(), rendered)
			} else {
				slog.Warn("failed to render issue catalog entry", "issueID", issue.MetadataOutOfDateId, "error", renderErr)
			}
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return &ExitError{Code: types.ExitFailure}
		},
	}

	cmd.Flags().StringVar(&gf.descriptor, "descriptor", "", "mod descriptor file (default from config: fabric.mod.cue)")
	cmd.Flags().StringVarP(&gf.outputDir, "output", "o", "", "directory that holds fabric.mod.json")
	return cmd
}
