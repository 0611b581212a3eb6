// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/invowk/launchpad/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// projectDir creates a minimal mod project layout.
func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"src/main/resources", "build/generated-sources"} {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(sub)), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", sub, err)
		}
	}
	return dir
}

func writeProjectFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filepath.FromSlash(rel)), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// startWatcher runs w until the test ends and fails the test if Run errors.
func startWatcher(t *testing.T, w *Watcher) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Run() did not return after cancellation")
		}
	})
	return cancel
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		BaseDir:  types.FilesystemPath(dir),
		Debounce: 100 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = changed
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	for _, rel := range []string{"fabric.mod.cue", "src/main/resources/b.txt", "src/main/resources/a.txt"} {
		writeProjectFile(t, dir, rel, "data")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected 1 debounced callback, got %d", calls)
	}
	want := []string{"fabric.mod.cue", "src/main/resources/a.txt", "src/main/resources/b.txt"}
	if !slices.Equal(collected, want) {
		t.Errorf("changed = %v, want %v", collected, want)
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  types.FilesystemPath(dir),
		Patterns: []string{"fabric.mod.*", "src/main/resources/**"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	writeProjectFile(t, dir, "notes.txt", "x")
	writeProjectFile(t, dir, "build/generated-sources/fabric.mod.json", "{}")
	time.Sleep(200 * time.Millisecond)
	writeProjectFile(t, dir, "fabric.mod.toml", "id = 'test'")

	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{"fabric.mod.toml"}) {
			t.Errorf("changed = %v, want [fabric.mod.toml]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  types.FilesystemPath(dir),
		Ignore:   []string{"**/*.log"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	writeProjectFile(t, dir, "debug.log", "log")
	writeProjectFile(t, dir, ".fabric.mod.json.123.tmp", "{}")
	time.Sleep(200 * time.Millisecond)
	writeProjectFile(t, dir, "fabric.mod.yaml", "id: test")

	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{"fabric.mod.yaml"}) {
			t.Errorf("changed = %v, want [fabric.mod.yaml]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	fired := make(chan []string, 10)

	w, err := New(Config{
		BaseDir:  types.FilesystemPath(dir),
		Patterns: []string{"src/main/resources/**/*.png"},
		Debounce: 50 * time.Millisecond,
		Logger:   discardLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	if err := os.MkdirAll(filepath.Join(dir, "src", "main", "resources", "assets"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	time.Sleep(100 * time.Millisecond)
	writeProjectFile(t, dir, "src/main/resources/assets/icon.png", "png")

	select {
	case changed := <-fired:
		if !slices.Contains(changed, "src/main/resources/assets/icon.png") {
			t.Errorf("changed = %v, want the new icon", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback in new directory")
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	done := make(chan struct{})
	var stdout bytes.Buffer

	w, err := New(Config{
		BaseDir:     types.FilesystemPath(dir),
		Debounce:    50 * time.Millisecond,
		ClearScreen: true,
		Stdout:      &stdout,
		Logger:      discardLogger(),
		OnChange: func(_ context.Context, _ []string) error {
			close(done)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	cancel := startWatcher(t, w)

	writeProjectFile(t, dir, "fabric.mod.cue", "x")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !strings.Contains(stdout.String(), "\033[2J\033[H") {
		t.Errorf("expected ANSI clear sequence, got %q", stdout.String())
	}
}

func TestWatcherCallbackErrorIsLogged(t *testing.T) {
	t.Parallel()

	dir := projectDir(t)
	done := make(chan struct{})
	var logs syncBuffer

	w, err := New(Config{
		BaseDir:  types.FilesystemPath(dir),
		Debounce: 50 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
		OnChange: func(_ context.Context, _ []string) error {
			defer close(done)
			return errors.New("descriptor is invalid")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)

	writeProjectFile(t, dir, "fabric.mod.cue", "x")
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(50 * time.Millisecond)

	if !strings.Contains(logs.String(), "descriptor is invalid") {
		t.Errorf("expected callback error in log, got %q", logs.String())
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{BaseDir: types.FilesystemPath(t.TempDir()), Logger: discardLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatcher(t, w)
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New(Config{BaseDir: types.FilesystemPath(t.TempDir()), Patterns: []string{"[invalid"}})
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("New() error = %v, want ErrInvalidPattern", err)
	}
	if !strings.Contains(err.Error(), "invalid watch pattern") {
		t.Errorf("error should name the pattern kind, got: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"valid patterns", Config{Patterns: []string{"fabric.mod.*", "src/**"}, Ignore: []string{"**/*.bak"}}, false},
		{"empty watch pattern", Config{Patterns: []string{""}}, true},
		{"bad ignore pattern", Config{Ignore: []string{"{unclosed"}}, true},
		{"whitespace base dir", Config{BaseDir: "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: DefaultIgnores()}
	tests := []struct {
		path    string
		ignored bool
	}{
		{".git/config", true},
		{".gradle/8.5/fileHashes", true},
		{"build/generated-sources/fabric-mod-metadata/fabric.mod.json", true},
		{"build", true},
		{".fabric.mod.json.4821.tmp", true},
		{"src/main/resources/.icon.png.1.tmp", true},
		{"fabric.mod.cue.swp", true},
		{"sub/.DS_Store", true},
		{"fabric.mod.cue", false},
		{"src/main/resources/assets/icon.png", false},
		{"src/build/notes.txt", false},
	}

	for _, tt := range tests {
		if got := w.isIgnoredDir(tt.path); got != tt.ignored {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.ignored)
		}
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
