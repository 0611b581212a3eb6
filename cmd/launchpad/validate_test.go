// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/launchpad/internal/testutil"
)

func TestValidateCommand(t *testing.T) {
	// Not parallel: commands install the process-wide slog default.
	dir := newProject(t, "")
	testutil.MustWriteFile(t, dir, "good.json", `{"schemaVersion":1,"id":"examplemod","version":"1.0.0","license":["MIT","CC0-1.0"]}`)
	testutil.MustWriteFile(t, dir, "bad-id.json", `{"schemaVersion":1,"id":"Bad","version":"1.0.0"}`)
	testutil.MustWriteFile(t, dir, "truncated.json", `{"id":"examplemod",`)
	testutil.MustWriteFile(t, dir, "fabric.mod.yaml", "id: examplemod\nversion: 1.0.0\nentrypoints:\n  main: [com.example.Main]\n")
	testutil.MustWriteFile(t, dir, "notes.txt", "id: examplemod")
	testutil.MustWriteFile(t, dir, "reserved.json", `{"schemaVersion":1,"id":"aux","version":"1.0.0"}`)

	tests := []struct {
		name       string
		file       string
		wantCode   int
		wantStdout []string
		wantStderr string
	}{
		{name: "valid metadata", file: "good.json", wantStdout: []string{"is valid", "examplemod", "MIT, CC0-1.0"}},
		{name: "valid yaml descriptor", file: "fabric.mod.yaml", wantStdout: []string{"is valid", "entrypoints", "1"}},
		{name: "id reserved on windows", file: "reserved.json", wantStdout: []string{"is valid", "reserved on Windows"}},
		{name: "invalid id", file: "bad-id.json", wantCode: 1},
		{name: "malformed json", file: "truncated.json", wantCode: 1},
		{name: "unsupported extension", file: "notes.txt", wantCode: 1},
		{name: "missing descriptor", file: "fabric.mod.toml", wantCode: 1, wantStderr: "failed to load descriptor: " + filepath.Join(dir, "fabric.mod.toml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, dir, "validate", filepath.Join(dir, tt.file))
			if got := int(res.exitCode()); got != tt.wantCode {
				t.Fatalf("exit code = %d, want %d (stderr: %s)", got, tt.wantCode, res.stderr)
			}
			for _, want := range tt.wantStdout {
				if !strings.Contains(res.stdout, want) {
					t.Errorf("stdout = %q, want it to contain %q", res.stdout, want)
				}
			}
			if tt.wantCode != 0 && !strings.Contains(res.stderr, "✗") {
				t.Errorf("stderr = %q, want an error line", res.stderr)
			}
			if !strings.Contains(res.stderr, tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", res.stderr, tt.wantStderr)
			}
		})
	}
}

func TestValidateCommand_RequiresOneArg(t *testing.T) {
	// Not parallel: commands install the process-wide slog default.
	res := runCLI(t, t.TempDir(), "validate")
	if res.err == nil {
		t.Fatal("validate without a file should fail")
	}
}
