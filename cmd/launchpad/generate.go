// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/config"
	"github.com/invowk/launchpad/internal/modsource"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/generate"
	"github.com/invowk/launchpad/pkg/types"
)

type (
	// generateFlagValues holds the flags of the generate command.
	generateFlagValues struct {
		descriptor string
		outputDir  string
		pretty     bool
		watch      bool
	}

	// generateRequest is a generate invocation with every path resolved.
	generateRequest struct {
		descriptor types.FilesystemPath
		outputFile types.FilesystemPath
		pretty     bool
	}
)

func newGenerateCommand(app *App, flags *rootFlagValues, current func() *session) *cobra.Command {
	gf := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate fabric.mod.json from the mod descriptor",
		Long: `Generate fabric.mod.json from the mod descriptor.

The file is written only when its content differs from the descriptor;
formatting and key order of an existing file do not count as a difference.
When the descriptor does not exist, a previously generated file is removed.

Examples:
  launchpad generate
  launchpad generate --descriptor fabric.mod.toml --pretty
  launchpad generate --output build/meta --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := current()
			req := s.generateRequest(cmd, gf)

			run := func(context.Context) error {
				return runGenerate(cmd.OutOrStdout(), s, req)
			}
			if gf.watch {
				return runWatch(cmd, flags, s, "generate", watchPatterns(s, req.descriptor), run)
			}
			if err := run(cmd.Context()); err != nil {
				return fail(cmd, flags, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&gf.descriptor, "descriptor", "", "mod descriptor file (default from config: fabric.mod.cue)")
	cmd.Flags().StringVarP(&gf.outputDir, "output", "o", "", "directory that receives fabric.mod.json")
	cmd.Flags().BoolVar(&gf.pretty, "pretty", false, "indent the generated JSON with tabs")
	cmd.Flags().BoolVarP(&gf.watch, "watch", "w", false, "regenerate whenever the descriptor changes")
	return cmd
}

// generateRequest applies the command-line overrides to the configuration.
func (s *session) generateRequest(cmd *cobra.Command, gf *generateFlagValues) generateRequest {
	req := generateRequest{
		descriptor: s.cfg.Descriptor,
		outputFile: s.cfg.OutputFile(),
		pretty:     s.cfg.PrettyPrint,
	}
	if gf.descriptor != "" {
		req.descriptor = fspath.ResolveAgainst(s.projectDir, types.FilesystemPath(gf.descriptor))
	}
	if gf.outputDir != "" {
		dir := fspath.ResolveAgainst(s.projectDir, types.FilesystemPath(gf.outputDir))
		req.outputFile = fspath.JoinStr(dir, config.MetadataFileName)
	}
	if cmd.Flags().Changed("pretty") {
		req.pretty = gf.pretty
	}
	return req
}

func runGenerate(w io.Writer, s *session, req generateRequest) error {
	desired, err := modsource.Load(req.descriptor)
	if err != nil {
		return err
	}

	outcome, err := generate.Generate(desired, req.outputFile, req.pretty)
	if err != nil {
		return err
	}

	out := CmdStyle.Render(s.relative(req.outputFile))
	switch outcome {
	case generate.OutcomeWritten:
		fmt.Fprintf(w, "%s Wrote %s\n", successIcon, out)
	case generate.OutcomeDeleted:
		fmt.Fprintf(w, "%s Removed %s (no descriptor at %s)\n", successIcon, out, s.relative(req.descriptor))
	default:
		fmt.Fprintf(w, "%s %s is up to date\n", skipIcon, out)
	}
	return nil
}
