// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/platform"
	"github.com/invowk/launchpad/pkg/types"
)

// ErrResourceSync is the sentinel matched by every *ResourceError.
var ErrResourceSync = errors.New("resource sync failed")

type (
	// ResourceError reports the file or directory a sync step failed on.
	ResourceError struct {
		Path string
		Err  error
	}

	// Changes lists the output files a sync created, replaced or removed,
	// as slash-separated paths relative to the output directory.
	Changes struct {
		Copied  []string
		Removed []string
	}
)

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrResourceSync, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() []error { return []error{ErrResourceSync, e.Err} }

// Empty reports whether the sync changed nothing.
func (c Changes) Empty() bool { return len(c.Copied) == 0 && len(c.Removed) == 0 }

// SyncResources makes outputDir mirror the union of dirs. Files are copied
// only when their content hash differs; output files no source provides are
// removed. Missing source directories are skipped. With dryRun nothing is
// written and the returned Changes describe what a real run would do.
func SyncResources(ctx context.Context, dirs []types.FilesystemPath, outputDir types.FilesystemPath, dryRun bool) (Changes, error) {
	sources, err := collectSources(ctx, dirs)
	if err != nil {
		return Changes{}, err
	}

	var changes Changes
	rels := make([]string, 0, len(sources))
	for rel := range sources {
		rels = append(rels, rel)
	}
	slices.Sort(rels)

	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return changes, err
		}
		src := sources[rel]
		dst := filepath.Join(string(outputDir), filepath.FromSlash(rel))
		same, err := sameContent(src, dst)
		if err != nil {
			return changes, err
		}
		if same {
			continue
		}
		if !dryRun {
			if err := copyFile(src, dst); err != nil {
				return changes, err
			}
		}
		changes.Copied = append(changes.Copied, rel)
	}

	removed, err := pruneOutput(outputDir, sources, dryRun)
	changes.Removed = removed
	if err != nil {
		return changes, err
	}

	if !changes.Empty() {
		slog.Debug("synced resources", "output", outputDir, "copied", len(changes.Copied), "removed", len(changes.Removed), "dry_run", dryRun)
	}
	return changes, nil
}

// collectSources maps each relative path to the file that provides it.
func collectSources(ctx context.Context, dirs []types.FilesystemPath) (map[string]string, error) {
	sources := make(map[string]string)
	for _, dir := range dirs {
		info, err := os.Stat(string(dir))
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("skipping missing resource directory", "dir", dir)
			continue
		}
		if err != nil {
			return nil, &ResourceError{Path: string(dir), Err: err}
		}
		if !info.IsDir() {
			return nil, &ResourceError{Path: string(dir), Err: errors.New("not a directory")}
		}

		err = filepath.WalkDir(string(dir), func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return &ResourceError{Path: path, Err: walkErr}
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := fspath.Rel(dir, types.FilesystemPath(path))
			if err != nil {
				return &ResourceError{Path: path, Err: err}
			}
			slashRel := filepath.ToSlash(string(rel))
			if seg := platform.ReservedSegment(slashRel); seg != "" {
				slog.Warn("resource path uses a name reserved on Windows", "path", slashRel, "segment", seg)
			}
			sources[slashRel] = path
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}

// pruneOutput removes output files that no source provides.
func pruneOutput(outputDir types.FilesystemPath, sources map[string]string, dryRun bool) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(string(outputDir), func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == string(outputDir) {
				return fs.SkipAll
			}
			return &ResourceError{Path: path, Err: walkErr}
		}
		if d.IsDir() {
			return nil
		}
		rel, err := fspath.Rel(outputDir, types.FilesystemPath(path))
		if err != nil {
			return &ResourceError{Path: path, Err: err}
		}
		slashRel := filepath.ToSlash(string(rel))
		if _, ok := sources[slashRel]; ok {
			return nil
		}
		if !dryRun {
			if err := os.Remove(path); err != nil {
				return &ResourceError{Path: path, Err: err}
			}
		}
		removed = append(removed, slashRel)
		return nil
	})
	return removed, err
}

// sameContent reports whether dst exists with the same bytes as src.
func sameContent(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &ResourceError{Path: dst, Err: err}
	}
	if !dstInfo.Mode().IsRegular() {
		return false, nil
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, &ResourceError{Path: src, Err: err}
	}
	if srcInfo.Size() != dstInfo.Size() {
		return false, nil
	}

	srcSum, err := fileHash(src)
	if err != nil {
		return false, err
	}
	dstSum, err := fileHash(dst)
	if err != nil {
		return false, err
	}
	return bytes.Equal(srcSum, dstSum), nil
}

func fileHash(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, &ResourceError{Path: path, Err: err}
	}
	return h.Sum(nil), nil
}

// copyFile writes src to dst through a temporary file in dst's directory.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return &ResourceError{Path: src, Err: err}
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return &ResourceError{Path: src, Err: err}
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ResourceError{Path: dir, Err: err}
	}
	if dstInfo, statErr := os.Lstat(dst); statErr == nil && dstInfo.IsDir() {
		if err := os.RemoveAll(dst); err != nil {
			return &ResourceError{Path: dst, Err: err}
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return &ResourceError{Path: dst, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return &ResourceError{Path: dst, Err: err}
	}
	if err = tmp.Chmod(info.Mode().Perm()); err != nil {
		return &ResourceError{Path: dst, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &ResourceError{Path: dst, Err: err}
	}
	if err = os.Rename(tmpName, dst); err != nil {
		return &ResourceError{Path: dst, Err: err}
	}
	return nil
}
