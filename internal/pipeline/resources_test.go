// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/invowk/launchpad/internal/testutil"
	"github.com/invowk/launchpad/pkg/types"
)

func TestSyncResources_CopiesMergesAndPrunes(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	resources := filepath.Join(root, "src", "main", "resources")
	generated := filepath.Join(root, "build", "generated-sources", "fabric-mod-metadata")
	out := filepath.Join(root, "build", "resources", "main")

	testutil.MustWriteFile(t, resources, "assets/examplemod/lang/en_us.json", `{"a":"b"}`)
	testutil.MustWriteFile(t, resources, "fabric.mod.json", "stale")
	testutil.MustWriteFile(t, generated, "fabric.mod.json", `{"id":"examplemod","version":"1.0.0"}`)
	testutil.MustWriteFile(t, out, "old/removed.txt", "gone")

	dirs := []types.FilesystemPath{
		types.FilesystemPath(resources),
		types.FilesystemPath(filepath.Join(root, "src", "missing")),
		types.FilesystemPath(generated),
	}

	preview, err := SyncResources(context.Background(), dirs, types.FilesystemPath(out), true)
	if err != nil {
		t.Fatalf("dry run error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "fabric.mod.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("dry run must not write")
	}

	changes, err := SyncResources(context.Background(), dirs, types.FilesystemPath(out), false)
	if err != nil {
		t.Fatalf("SyncResources() error: %v", err)
	}
	wantCopied := []string{"assets/examplemod/lang/en_us.json", "fabric.mod.json"}
	if !slices.Equal(changes.Copied, wantCopied) || !slices.Equal(preview.Copied, wantCopied) {
		t.Errorf("Copied = %v (preview %v), want %v", changes.Copied, preview.Copied, wantCopied)
	}
	if !slices.Equal(changes.Removed, []string{"old/removed.txt"}) {
		t.Errorf("Removed = %v", changes.Removed)
	}
	if got := testutil.MustReadFile(t, filepath.Join(out, "fabric.mod.json")); got != `{"id":"examplemod","version":"1.0.0"}` {
		t.Errorf("later directory should win, got %q", got)
	}

	again, err := SyncResources(context.Background(), dirs, types.FilesystemPath(out), false)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Empty() {
		t.Errorf("second sync should change nothing, got %+v", again)
	}
}

func TestSyncResources_SameContentIsNotRewritten(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "res")
	out := filepath.Join(root, "out")
	testutil.MustWriteFile(t, src, "a.txt", "same")
	dst := testutil.MustWriteFile(t, out, "a.txt", "same")
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(dst, old, old); err != nil {
		t.Fatal(err)
	}

	changes, err := SyncResources(context.Background(), []types.FilesystemPath{types.FilesystemPath(src)}, types.FilesystemPath(out), false)
	if err != nil {
		t.Fatal(err)
	}
	if !changes.Empty() {
		t.Errorf("changes = %+v, want none", changes)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("file with equal content was rewritten")
	}
}

func TestSyncResources_SameSizeDifferentContent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "res")
	out := filepath.Join(root, "out")
	testutil.MustWriteFile(t, src, "a.txt", "new!")
	dst := testutil.MustWriteFile(t, out, "a.txt", "old!")

	changes, err := SyncResources(context.Background(), []types.FilesystemPath{types.FilesystemPath(src)}, types.FilesystemPath(out), false)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(changes.Copied, []string{"a.txt"}) {
		t.Errorf("Copied = %v", changes.Copied)
	}
	if got := testutil.MustReadFile(t, dst); got != "new!" {
		t.Errorf("content = %q", got)
	}
}

func TestSyncResources_SourceIsAFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	file := testutil.MustWriteFile(t, root, "resources", "not a dir")

	_, err := SyncResources(context.Background(), []types.FilesystemPath{types.FilesystemPath(file)}, types.FilesystemPath(filepath.Join(root, "out")), false)
	if !errors.Is(err, ErrResourceSync) {
		t.Fatalf("expected ErrResourceSync, got %v", err)
	}
	var resErr *ResourceError
	if !errors.As(err, &resErr) || resErr.Path != file {
		t.Errorf("unexpected ResourceError: %+v", resErr)
	}
}

func TestSyncResources_NoSourcesNoOutput(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	changes, err := SyncResources(context.Background(),
		[]types.FilesystemPath{types.FilesystemPath(filepath.Join(root, "missing"))},
		types.FilesystemPath(filepath.Join(root, "out")), false)
	if err != nil {
		t.Fatalf("SyncResources() error: %v", err)
	}
	if !changes.Empty() {
		t.Errorf("changes = %+v", changes)
	}
}
