// SPDX-License-Identifier: MPL-2.0

// Package fspath provides path/filepath operations on types.FilesystemPath,
// so that output and resource locations stay typed from configuration to
// the file system calls.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/launchpad/pkg/types"
)

// Join joins typed path elements.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr joins a typed base with raw segments such as "fabric.mod.json" or
// names returned by os.ReadDir.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir returns all but the last element of p.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Base returns the last element of p.
func Base(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Base(string(p)))
}

// Ext returns the lowercased file name extension of p, including the dot.
func Ext(p types.FilesystemPath) string {
	return strings.ToLower(filepath.Ext(string(p)))
}

// Abs returns an absolute form of p.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Rel returns target relative to base.
func Rel(base, target types.FilesystemPath) (types.FilesystemPath, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativizing %s: %w", target, err)
	}
	return types.FilesystemPath(rel), nil
}

// Clean returns the shortest equivalent form of p.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// ResolveAgainst returns p unchanged when it is absolute and joined to base otherwise.
func ResolveAgainst(base, p types.FilesystemPath) types.FilesystemPath {
	if filepath.IsAbs(string(p)) {
		return Clean(p)
	}
	return Join(base, p)
}
