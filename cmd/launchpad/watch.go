// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/launchpad/internal/watch"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/types"
)

// watchPatterns selects the project config, the descriptor and every file
// under the given directories. Paths outside the project directory cannot be
// watched and are skipped.
func watchPatterns(s *session, descriptor types.FilesystemPath, dirs ...types.FilesystemPath) []string {
	patterns := []string{configFile()}
	add := func(p types.FilesystemPath, suffix string) {
		rel, err := fspath.Rel(s.projectDir, p)
		if err != nil || strings.HasPrefix(string(rel), "..") {
			slog.Warn("not watching path outside the project", "path", p)
			return
		}
		patterns = append(patterns, filepath.ToSlash(string(rel))+suffix)
	}
	add(descriptor, "")
	for _, dir := range dirs {
		add(dir, "/**")
	}
	return patterns
}

// runWatch runs action once, then again after every batch of changes until
// the context is canceled (e.g., Ctrl+C). Failures are reported and the
// watch continues, so the user can fix the file and save again.
func runWatch(cmd *cobra.Command, flags *rootFlagValues, s *session, name string, patterns []string, action func(ctx context.Context) error) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	rerun := func(ctx context.Context) {
		if err := action(ctx); err != nil {
			renderError(stderr, err, flags.verbose)
		}
	}

	fmt.Fprintf(stdout, "%s Watch mode: initial %s\n", infoIcon, name)
	rerun(cmd.Context())
	fmt.Fprintf(stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", infoIcon)

	w, err := watch.New(watch.Config{
		Patterns: patterns,
		Ignore:   s.cfg.Watch.Ignore,
		Debounce: s.cfg.Watch.Debounce,
		BaseDir:  s.projectDir,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(stdout, "%s Detected %d change(s): %s\n", infoIcon, len(changed), strings.Join(changed, ", "))
			rerun(ctx)
			fmt.Fprintf(stdout, "\n%s Watching for changes...\n\n", infoIcon)
			return nil
		},
		Stdout: stdout,
		Logger: slog.Default(),
	})
	if err != nil {
		return fail(cmd, flags, fmt.Errorf("failed to start watcher: %w", err))
	}
	if err := w.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
		return fail(cmd, flags, err)
	}
	return nil
}
