// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/invowk/launchpad/internal/config"
)

// newLogger builds the CLI logger. Library packages log through slog, so the
// charm logger is installed as the slog handler.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *slog.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "launchpad",
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}

// setupLogging makes the CLI logger the process-wide slog default.
func setupLogging(w io.Writer, level config.LogLevel, verbose bool) {
	slog.SetDefault(newLogger(w, level, verbose))
}
