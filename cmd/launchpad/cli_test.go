// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/invowk/launchpad/internal/testutil"
	"github.com/invowk/launchpad/pkg/types"
)

const minimalDescriptor = `
id:      "examplemod"
version: "1.0.0"
name:    "Example Mod"
`

// cliResult captures one command execution.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// exitCode returns the code carried by the returned error, or 0.
func (r cliResult) exitCode() types.ExitCode {
	var exitErr *ExitError
	if errors.As(r.err, &exitErr) {
		return exitErr.Code
	}
	if r.err != nil {
		return types.ExitFailure
	}
	return 0
}

// newProject creates a project directory holding fabric.mod.cue with the
// given content. Empty content leaves the descriptor out.
func newProject(t *testing.T, descriptor string) string {
	t.Helper()
	dir := t.TempDir()
	if descriptor != "" {
		testutil.MustWriteFile(t, dir, "fabric.mod.cue", descriptor)
	}
	return dir
}

// runCLI executes the root command against projectDir with an empty user
// config directory.
func runCLI(t *testing.T, projectDir string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{
		ConfigDir: types.FilesystemPath(t.TempDir()),
		Stdout:    &stdout,
		Stderr:    &stderr,
	})
	root := NewRootCommand(app)
	root.SetArgs(append([]string{"-C", projectDir}, args...))
	err := root.ExecuteContext(context.Background())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func metadataPath(projectDir string) string {
	return filepath.Join(projectDir, "build", "generated-sources", "fabric-mod-metadata", "fabric.mod.json")
}
