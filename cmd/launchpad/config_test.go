// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/invowk/launchpad/internal/testutil"
)

func TestConfigShow(t *testing.T) {
	// Not parallel: commands install the process-wide slog default.
	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "launchpad.cue", "descriptor: \"meta/fabric.mod.yaml\"\npretty_print: true\n")

	res := runCLI(t, dir, "config", "show")
	if res.err != nil {
		t.Fatalf("config show: %v", res.err)
	}
	for _, want := range []string{
		filepath.Join("meta", "fabric.mod.yaml"),
		"pretty_print",
		"true",
		filepath.Join("src", "main", "resources"),
		"500ms",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout = %q, want it to contain %q", res.stdout, want)
		}
	}
}

func TestConfigInit(t *testing.T) {
	// Not parallel: commands install the process-wide slog default.
	dir := t.TempDir()

	res := runCLI(t, dir, "config", "init")
	if res.err != nil {
		t.Fatalf("config init: %v", res.err)
	}
	if !strings.Contains(res.stdout, "Created") {
		t.Errorf("stdout = %q, want Created", res.stdout)
	}
	content := testutil.MustReadFile(t, filepath.Join(dir, "launchpad.cue"))
	if !strings.Contains(content, `descriptor: "fabric.mod.cue"`) {
		t.Errorf("launchpad.cue = %s, want the defaults", content)
	}

	res = runCLI(t, dir, "config", "init")
	if res.err != nil {
		t.Fatalf("second config init: %v", res.err)
	}
	if !strings.Contains(res.stdout, "already exists") {
		t.Errorf("stdout = %q, want already exists", res.stdout)
	}
}

func TestConfigPath(t *testing.T) {
	// Not parallel: commands install the process-wide slog default.
	dir := t.TempDir()

	res := runCLI(t, dir, "config", "path")
	if res.err != nil {
		t.Fatalf("config path: %v", res.err)
	}
	if !strings.Contains(res.stdout, filepath.Join(dir, "launchpad.cue")) {
		t.Errorf("stdout = %q, want the project config path", res.stdout)
	}
	if !strings.Contains(res.stdout, "user:") {
		t.Errorf("stdout = %q, want the user config path", res.stdout)
	}

	explicit := filepath.Join(dir, "ci.cue")
	testutil.MustWriteFile(t, dir, "ci.cue", "pretty_print: true\n")
	res = runCLI(t, dir, "--config", explicit, "config", "path")
	if res.err != nil {
		t.Fatalf("config path --config: %v", res.err)
	}
	if !strings.Contains(res.stdout, "config:  "+explicit) || strings.Contains(res.stdout, "user:") {
		t.Errorf("stdout = %q, want only the explicit config file", res.stdout)
	}
}
