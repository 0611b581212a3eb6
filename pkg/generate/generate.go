// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/types"
)

const (
	// ActionNone leaves the output untouched.
	ActionNone Action = iota
	// ActionWrite writes (or overwrites) the output.
	ActionWrite
	// ActionDelete removes the output.
	ActionDelete
)

const (
	// OutcomeNoOp means the output was already current.
	OutcomeNoOp Outcome = iota
	// OutcomeWritten means the output was written.
	OutcomeWritten
	// OutcomeDeleted means a stale output was removed.
	OutcomeDeleted
)

// ErrOutputIsDirectory is returned when the output path names a directory.
var ErrOutputIsDirectory = errors.New("output path is a directory")

type (
	// Action is what Generate would do to bring the output up to date.
	Action int

	// Outcome is what Generate did.
	Outcome int
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// String returns a human-readable outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoOp:
		return "up to date"
	case OutcomeWritten:
		return "written"
	case OutcomeDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// DidWork reports whether the output was changed.
func (o Outcome) DidWork() bool { return o != OutcomeNoOp }

// Plan decides how the file at outputPath must change to hold desired.
// A nil desired means no descriptor is configured, so an existing file is
// stale. An existing file that cannot be decoded is overwritten. Plan has no
// side effects; read errors other than a missing file are returned.
func Plan(desired *fabricmod.ModDescriptor, outputPath types.FilesystemPath) (Action, error) {
	info, err := os.Stat(string(outputPath))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if desired == nil {
			return ActionNone, nil
		}
		return ActionWrite, nil
	case err != nil:
		return ActionNone, fmt.Errorf("checking %s: %w", outputPath, err)
	case info.IsDir():
		return ActionNone, fmt.Errorf("%w: %s", ErrOutputIsDirectory, outputPath)
	}

	if desired == nil {
		return ActionDelete, nil
	}

	data, err := os.ReadFile(string(outputPath))
	if err != nil {
		return ActionNone, fmt.Errorf("reading %s: %w", outputPath, err)
	}
	existing, err := fabricmod.Unmarshal(data)
	if err != nil {
		slog.Debug("existing fabric.mod.json is not decodable, overwriting", "path", outputPath, "error", err)
		return ActionWrite, nil
	}
	if desired.Equal(existing) {
		return ActionNone, nil
	}
	return ActionWrite, nil
}

// IsCurrent reports whether outputPath already matches desired. Errors
// count as "not current".
func IsCurrent(desired *fabricmod.ModDescriptor, outputPath types.FilesystemPath) bool {
	action, err := Plan(desired, outputPath)
	if err != nil {
		slog.Debug("cannot determine whether fabric.mod.json is current", "path", outputPath, "error", err)
		return false
	}
	return action == ActionNone
}

// Generate brings outputPath up to date with desired: it writes the encoded
// document, removes a stale file when desired is nil, or does nothing when
// the file is current. Writes replace the file atomically, so a failed
// generation leaves the previous file in place.
func Generate(desired *fabricmod.ModDescriptor, outputPath types.FilesystemPath, prettyPrint bool) (Outcome, error) {
	action, err := Plan(desired, outputPath)
	if err != nil {
		return OutcomeNoOp, err
	}
	slog.Debug("fabric.mod.json generation planned", "path", outputPath, "action", action)

	switch action {
	case ActionDelete:
		if err := os.Remove(string(outputPath)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return OutcomeNoOp, fmt.Errorf("removing stale %s: %w", outputPath, err)
		}
		return OutcomeDeleted, nil
	case ActionWrite:
		data, err := fabricmod.Marshal(desired, fabricmod.WithPrettyPrint(prettyPrint))
		if err != nil {
			return OutcomeNoOp, err
		}
		if err := os.MkdirAll(string(fspath.Dir(outputPath)), 0o755); err != nil {
			return OutcomeNoOp, fmt.Errorf("creating output directory: %w", err)
		}
		if err := atomicWriteFile(outputPath, data); err != nil {
			return OutcomeNoOp, err
		}
		return OutcomeWritten, nil
	default:
		return OutcomeNoOp, nil
	}
}

// atomicWriteFile writes data to a temporary file next to path and renames
// it into place.
func atomicWriteFile(path types.FilesystemPath, data []byte) (err error) {
	tmp, err := os.CreateTemp(string(fspath.Dir(path)), "."+string(fspath.Base(path))+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath) // Best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpPath, string(path)); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
