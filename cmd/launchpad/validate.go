// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/issue"
	"github.com/invowk/launchpad/internal/modsource"
	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/platform"
	"github.com/invowk/launchpad/pkg/types"
)

func newValidateCommand(flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a fabric.mod.json or mod descriptor",
		Long: `Validate a fabric.mod.json document or a mod descriptor.

A .json file is decoded as fabric.mod.json and checked against the schema;
unlike 'generate', a malformed document is an error here. Files ending in
.cue, .toml, .yaml or .yml are read as mod descriptors.

Examples:
  launchpad validate build/generated-sources/fabric-mod-metadata/fabric.mod.json
  launchpad validate fabric.mod.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := types.FilesystemPath(args[0])
			m, err := loadForValidation(path)
			if err != nil {
				return fail(cmd, flags, err)
			}
			printSummary(cmd.OutOrStdout(), path, m)
			return nil
		},
	}
}

func loadForValidation(path types.FilesystemPath) (*fabricmod.ModDescriptor, error) {
	if fspath.Ext(path) == ".json" {
		f, err := os.Open(string(path))
		if err != nil {
			return nil, issue.WrapWithContext(err, "open metadata", string(path))
		}
		defer func() { _ = f.Close() }()
		return fabricmod.Decode(f)
	}

	m, err := modsource.Load(path)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, issue.WrapWithContext(os.ErrNotExist, "load descriptor", string(path))
	}
	return m, nil
}

func printSummary(w io.Writer, path types.FilesystemPath, m *fabricmod.ModDescriptor) {
	fmt.Fprintf(w, "%s %s is valid\n\n", successIcon, CmdStyle.Render(string(path)))
	row := func(key, value string) {
		fmt.Fprintf(w, "  %-14s %s\n", SubtitleStyle.Render(key), value)
	}

	row("id", string(m.ID()))
	row("version", m.Version())
	if name := m.Name(); name != "" {
		row("name", name)
	}
	row("environment", m.Environment().String())
	if eps, ok := m.EntryPoints(); ok {
		row("entrypoints", fmt.Sprintf("%d", eps.Count()))
	}
	if deps := m.Depends(); len(deps) > 0 {
		row("depends", fmt.Sprintf("%d", len(deps)))
	}
	if licenses := m.License(); len(licenses) > 0 {
		row("license", strings.Join(licenses, ", "))
	}
	if platform.IsWindowsReservedName(string(m.ID())) {
		fmt.Fprintf(w, "\n%s id %q is reserved on Windows; assets/%s cannot be created there\n", warningIcon, m.ID(), m.ID())
	}
}
