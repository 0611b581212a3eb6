// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/types"
)

func outputIn(t *testing.T) types.FilesystemPath {
	t.Helper()
	return types.FilesystemPath(filepath.Join(t.TempDir(), "build", "generated-sources", "fabric-mod-metadata", "fabric.mod.json"))
}

func descriptor(t *testing.T, opts ...fabricmod.Option) *fabricmod.ModDescriptor {
	t.Helper()
	m, err := fabricmod.New("test", "3.14", opts...)
	if err != nil {
		t.Fatalf("fabricmod.New() unexpected error: %v", err)
	}
	return m
}

func writeFile(t *testing.T, path types.FilesystemPath, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(string(path)), 0o755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := os.WriteFile(string(path), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
}

func TestGenerate_WritesThenNoOp(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	desired := descriptor(t)

	outcome, err := Generate(desired, out, false)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if outcome != OutcomeWritten || !outcome.DidWork() {
		t.Fatalf("Generate() = %v, want %v", outcome, OutcomeWritten)
	}

	data, err := os.ReadFile(string(out))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	decoded, err := fabricmod.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if !decoded.Equal(desired) {
		t.Errorf("decoded output differs from desired: %s", data)
	}

	outcome, err = Generate(desired, out, false)
	if err != nil {
		t.Fatalf("second Generate() unexpected error: %v", err)
	}
	if outcome != OutcomeNoOp || outcome.DidWork() {
		t.Errorf("second Generate() = %v, want %v", outcome, OutcomeNoOp)
	}
}

func TestGenerate_SettlesToNoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []fabricmod.Option
	}{
		{"schema version zero", []fabricmod.Option{fabricmod.WithSchemaVersion(0)}},
		{"empty entry point group", []fabricmod.Option{fabricmod.WithEntryPoints(fabricmod.EntryPoints{
			Additional: map[string][]fabricmod.EntryPoint{"rei": nil},
		})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := outputIn(t)
			desired := descriptor(t, tt.opts...)

			if outcome, err := Generate(desired, out, false); err != nil || outcome != OutcomeWritten {
				t.Fatalf("Generate() = %v, %v; want %v", outcome, err, OutcomeWritten)
			}
			if outcome, err := Generate(desired, out, false); err != nil || outcome != OutcomeNoOp {
				t.Errorf("second Generate() = %v, %v; want %v", outcome, err, OutcomeNoOp)
			}
			if !IsCurrent(desired, out) {
				t.Error("IsCurrent() = false after Generate()")
			}
		})
	}
}

func TestGenerate_NegativeSchemaVersionNeverReachesDisk(t *testing.T) {
	t.Parallel()

	m, err := fabricmod.New("test", "1", fabricmod.WithSchemaVersion(-1))
	if m != nil || !errors.Is(err, fabricmod.ErrInvalidSchemaVersion) {
		t.Fatalf("fabricmod.New() = %v, %v; want ErrInvalidSchemaVersion", m, err)
	}
}

func TestGenerate_CurrentFileUntouched(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	desired := descriptor(t, fabricmod.WithName("Test"))

	// Pretty, reordered and with explicit defaults: structurally equal.
	content := "{\n\t\"name\": \"Test\",\n\t\"version\": \"3.14\",\n\t\"id\": \"test\",\n\t\"schemaVersion\": 1,\n\t\"environment\": \"*\"\n}\n"
	writeFile(t, out, content)
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(string(out), old, old); err != nil {
		t.Fatalf("Chtimes() error: %v", err)
	}

	if !IsCurrent(desired, out) {
		t.Fatal("IsCurrent() = false, want true")
	}
	outcome, err := Generate(desired, out, false)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if outcome != OutcomeNoOp {
		t.Errorf("Generate() = %v, want %v", outcome, OutcomeNoOp)
	}

	info, err := os.Stat(string(out))
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Errorf("modification time changed: %v, want %v", info.ModTime(), old)
	}
	if data, _ := os.ReadFile(string(out)); string(data) != content {
		t.Errorf("content changed: %q", data)
	}
}

func TestGenerate_OverwritesUndecodableFile(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	writeFile(t, out, "this is not json")
	desired := descriptor(t)

	if IsCurrent(desired, out) {
		t.Fatal("IsCurrent() = true for a corrupt file")
	}
	action, err := Plan(desired, out)
	if err != nil || action != ActionWrite {
		t.Fatalf("Plan() = %v, %v; want %v, nil", action, err, ActionWrite)
	}

	outcome, err := Generate(desired, out, false)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if outcome != OutcomeWritten {
		t.Errorf("Generate() = %v, want %v", outcome, OutcomeWritten)
	}
	data, _ := os.ReadFile(string(out))
	if string(data) != `{"id":"test","version":"3.14"}` {
		t.Errorf("output = %s", data)
	}
}

func TestGenerate_OverwritesDifferentFile(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	writeFile(t, out, `{"id":"test","version":"1.0"}`)

	outcome, err := Generate(descriptor(t), out, true)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if outcome != OutcomeWritten {
		t.Errorf("Generate() = %v, want %v", outcome, OutcomeWritten)
	}
	data, _ := os.ReadFile(string(out))
	if !bytes.Contains(data, []byte("\t\"version\": \"3.14\"")) {
		t.Errorf("output should be tab-indented with the new version: %s", data)
	}
}

func TestGenerate_AbsentDesired(t *testing.T) {
	t.Parallel()

	t.Run("deletes existing output", func(t *testing.T) {
		t.Parallel()
		out := outputIn(t)
		writeFile(t, out, `{"id":"test","version":"3.14"}`)

		if IsCurrent(nil, out) {
			t.Error("IsCurrent(nil) = true for an existing file")
		}
		outcome, err := Generate(nil, out, false)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if outcome != OutcomeDeleted || !outcome.DidWork() {
			t.Errorf("Generate() = %v, want %v", outcome, OutcomeDeleted)
		}
		if _, err := os.Stat(string(out)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("output still exists: %v", err)
		}
	})

	t.Run("no output is current", func(t *testing.T) {
		t.Parallel()
		out := outputIn(t)
		if !IsCurrent(nil, out) {
			t.Error("IsCurrent(nil) = false without output")
		}
		outcome, err := Generate(nil, out, false)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if outcome != OutcomeNoOp {
			t.Errorf("Generate() = %v, want %v", outcome, OutcomeNoOp)
		}
	})
}

func TestGenerate_OutputIsDirectory(t *testing.T) {
	t.Parallel()

	out := types.FilesystemPath(t.TempDir())
	if _, err := Generate(descriptor(t), out, false); !errors.Is(err, ErrOutputIsDirectory) {
		t.Errorf("Generate() error = %v, want ErrOutputIsDirectory", err)
	}
	if IsCurrent(descriptor(t), out) {
		t.Error("IsCurrent() = true for a directory")
	}
}

func TestGenerate_CompactOmitsDefaults(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	if _, err := Generate(descriptor(t), out, false); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	data, _ := os.ReadFile(string(out))
	for _, key := range []string{"schemaVersion", "environment"} {
		if bytes.Contains(data, []byte(key)) {
			t.Errorf("output should omit %q: %s", key, data)
		}
	}

	decoded, err := fabricmod.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}
	if decoded.SchemaVersion() != 1 || decoded.Environment() != fabricmod.EnvironmentEither {
		t.Errorf("decoded defaults = %d, %q", decoded.SchemaVersion(), decoded.Environment())
	}
}

func TestGenerate_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	out := outputIn(t)
	if _, err := Generate(descriptor(t), out, false); err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(string(out)))
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "fabric.mod.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("output directory = %v, want only fabric.mod.json", names)
	}
}

func TestActionAndOutcome_String(t *testing.T) {
	t.Parallel()

	if ActionDelete.String() != "delete" || Action(9).String() != "action(9)" {
		t.Errorf("unexpected Action strings: %q, %q", ActionDelete, Action(9))
	}
	if OutcomeNoOp.String() != "up to date" || Outcome(9).String() != "outcome(9)" {
		t.Errorf("unexpected Outcome strings: %q, %q", OutcomeNoOp, Outcome(9))
	}
}
