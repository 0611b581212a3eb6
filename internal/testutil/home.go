// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/invowk/launchpad/pkg/platform"
)

// SetConfigHome points the platform's user configuration directory at dir
// for the duration of the test and returns the directory os.UserConfigDir
// will report. It uses t.Setenv, so the calling test must not be parallel.
//
// Platform handling:
//   - Windows: Sets APPDATA
//   - macOS: Sets HOME (config lives under Library/Application Support)
//   - Others: Sets XDG_CONFIG_HOME
func SetConfigHome(t *testing.T, dir string) string {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		t.Setenv("APPDATA", dir)
		return dir
	case platform.Darwin:
		t.Setenv("HOME", dir)
		return filepath.Join(dir, "Library", "Application Support")
	default:
		t.Setenv("XDG_CONFIG_HOME", dir)
		return dir
	}
}
