// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so callers get typed-in/typed-out
// path operations.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/modrepo/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments, e.g. slash-converted entry paths from a relpath.Path.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath. The result is cleaned.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// EvalSymlinks wraps filepath.EvalSymlinks for FilesystemPath. The path must
// exist.
func EvalSymlinks(p types.FilesystemPath) (types.FilesystemPath, error) {
	resolved, err := filepath.EvalSymlinks(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}
	return types.FilesystemPath(resolved), nil
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Contains reports whether target is root itself or lies below it, using
// filepath.Rel so that sibling directories sharing a name prefix
// ("/repo" and "/repository") are told apart.
func Contains(root, target types.FilesystemPath) bool {
	rel, err := filepath.Rel(string(root), string(target))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
