// SPDX-License-Identifier: MPL-2.0

// Package moduleid parses the identifiers passed to require().
//
// An identifier is either relative ("./x", "../x", or exactly "." / "..") and
// resolved against the requiring module's container, or top-level and
// resolved against a repository base.
package moduleid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/modrepo/pkg/relpath"
)

// ScriptExtension is stripped from identifiers before candidate suffixes are
// tried, so "a/b.js" and "a/b" resolve identically.
const ScriptExtension = ".js"

// ErrInvalidModuleID is the sentinel error wrapped by InvalidModuleIDError.
var ErrInvalidModuleID = errors.New("invalid module id")

type (
	// ID is a parsed module identifier.
	ID struct {
		raw      string
		path     relpath.Path
		relative bool
	}

	// InvalidModuleIDError is returned when an identifier cannot be parsed.
	InvalidModuleIDError struct {
		Value  string
		Reason string
		Cause  error
	}
)

// Parse validates text and splits it into path segments.
func Parse(text string) (ID, error) {
	if strings.TrimSpace(text) == "" {
		return ID{}, &InvalidModuleIDError{Value: text, Reason: "must be non-empty"}
	}
	if text != strings.TrimSpace(text) {
		return ID{}, &InvalidModuleIDError{Value: text, Reason: "must not have leading or trailing whitespace"}
	}
	p, err := relpath.Parse(text)
	if err != nil {
		return ID{}, &InvalidModuleIDError{Value: text, Reason: "not a relative path", Cause: err}
	}
	return ID{raw: text, path: p, relative: isRelative(text)}, nil
}

func isRelative(text string) bool {
	return text == "." || text == ".." ||
		strings.HasPrefix(text, "./") || strings.HasPrefix(text, "../")
}

// IsRelative reports whether text is a relative identifier. It does not
// validate the rest of the identifier.
func IsRelative(text string) bool {
	return isRelative(text)
}

// String returns the identifier as it was written.
func (id ID) String() string { return id.raw }

// Path returns the identifier's segments, unnormalized.
func (id ID) Path() relpath.Path { return id.path }

// IsRelative reports whether the identifier starts with "./" or "../".
func (id ID) IsRelative() bool { return id.relative }

// Normalized strips a trailing ScriptExtension from the last segment. A last
// segment consisting only of the extension is kept as is.
func (id ID) Normalized() ID {
	base := id.path.Base()
	if !strings.HasSuffix(base, ScriptExtension) || base == ScriptExtension {
		return id
	}
	segs := id.path.Segments()
	segs[len(segs)-1] = strings.TrimSuffix(base, ScriptExtension)
	p, err := relpath.FromSegments(segs...)
	if err != nil {
		return id
	}
	return ID{raw: id.raw, path: p, relative: id.relative}
}

// ResolveAgainst resolves the identifier inside the container dir and
// canonicalizes the result. It fails when ".." would climb above dir's root.
func (id ID) ResolveAgainst(dir relpath.Path) (relpath.Path, bool) {
	return id.path.ResolveAgainstDirectoryContext(dir)
}

// Error implements the error interface for InvalidModuleIDError.
func (e *InvalidModuleIDError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid module id %q: %s: %v", e.Value, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid module id %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidModuleID for errors.Is() compatibility.
func (e *InvalidModuleIDError) Unwrap() error { return ErrInvalidModuleID }
