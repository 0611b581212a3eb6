// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/dag"
	"github.com/invowk/launchpad/internal/issue"
	"github.com/invowk/launchpad/internal/modsource"
	"github.com/invowk/launchpad/internal/pipeline"
	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/generate"
	"github.com/invowk/launchpad/pkg/types"
)

// issueStyle is the glamour style used for catalog entries.
const issueStyle = "dark"

// classifyError maps an error to the catalog entry that explains it, or 0.
// Source errors are checked before document errors because a descriptor
// that fails the schema wraps both.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		return ae.IssueID
	}

	switch {
	case errors.Is(err, modsource.ErrParseSource), errors.Is(err, modsource.ErrUnsupportedFormat):
		return issue.DescriptorParseErrorId
	case errors.Is(err, fabricmod.ErrInvalidModDescriptor):
		return issue.InvalidDescriptorId
	case errors.Is(err, fabricmod.ErrMalformedDocument):
		return issue.MalformedMetadataId
	case errors.Is(err, dag.ErrCycle):
		return issue.DependencyCycleId
	case errors.Is(err, pipeline.ErrResourceSync):
		return issue.ResourceCopyFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.DescriptorNotFoundId
	case errors.Is(err, generate.ErrOutputIsDirectory), errors.Is(err, fs.ErrPermission):
		return issue.OutputNotWritableId
	default:
		return 0
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderError prints err and, when one applies, the catalog entry that
// explains it.
func renderError(stderr io.Writer, err error, verbose bool) {
	fmt.Fprintf(stderr, "%s %s\n", errorIcon, formatErrorForDisplay(err, verbose))

	id := classifyError(err)
	if id == 0 {
		return
	}
	if catalogEntry := issue.Get(id); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(issueStyle)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}

// fail reports err on the command's stderr and returns the exit error for
// RunE. Cobra's own error and usage output is silenced.
func fail(cmd *cobra.Command, flags *rootFlagValues, err error) error {
	renderError(cmd.ErrOrStderr(), err, flags.verbose)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: types.ExitFailure, Err: err}
}
