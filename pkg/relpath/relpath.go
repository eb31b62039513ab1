// SPDX-License-Identifier: MPL-2.0

package relpath

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// Separator is the segment separator used by the textual form of a Path.
	Separator = "/"

	currentDir = "."
	parentDir  = ".."
)

var (
	// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid relative path")
	// ErrAbsolutePath is returned when the text starts with a separator.
	ErrAbsolutePath = errors.New("path must be relative")
	// ErrInvalidCharacter is returned when the text contains a character that
	// would make the representation platform-dependent.
	ErrInvalidCharacter = errors.New("path contains a disallowed character")
)

// disallowedChars are rejected so that the same text parses identically on
// every platform.
const disallowedChars = "\\\x00"

type (
	// Path is an immutable sequence of non-empty, separator-free segments.
	// The zero value is the empty path.
	Path struct {
		segments []string
	}

	// InvalidPathError is returned when text cannot be parsed as a Path.
	// It wraps ErrInvalidPath and the specific reason for errors.Is().
	InvalidPathError struct {
		Text   string
		Reason error
	}
)

// Parse splits text on one or more consecutive separators.
// Blank text yields the empty path. Text starting with a separator or
// containing a backslash or NUL byte is rejected.
func Parse(text string) (Path, error) {
	if strings.TrimSpace(text) == "" {
		return Path{}, nil
	}
	if strings.HasPrefix(text, Separator) {
		return Path{}, &InvalidPathError{Text: text, Reason: ErrAbsolutePath}
	}
	if strings.ContainsAny(text, disallowedChars) {
		return Path{}, &InvalidPathError{Text: text, Reason: ErrInvalidCharacter}
	}

	var segments []string
	for _, s := range strings.Split(text, Separator) {
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}
	return Path{segments: segments}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// FromSegments builds a Path from already-split segments. Empty segments are
// dropped; a segment containing a separator or disallowed character is an error.
func FromSegments(segments ...string) (Path, error) {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		if strings.Contains(s, Separator) || strings.ContainsAny(s, disallowedChars) {
			return Path{}, &InvalidPathError{Text: s, Reason: ErrInvalidCharacter}
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return Path{}, nil
	}
	return Path{segments: out}, nil
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return slices.Clone(p.segments)
}

// Len returns the number of segments.
func (p Path) Len() int { return len(p.segments) }

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool { return len(p.segments) == 0 }

// Base returns the last segment, or "" for the empty path.
func (p Path) Base() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path without its last segment. The empty path has no
// parent.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Path{}, false
	}
	return Path{segments: p.segments[: len(p.segments)-1 : len(p.segments)-1]}, true
}

// Append returns a new path made of p's segments followed by other's.
func (p Path) Append(other Path) Path {
	if len(other.segments) == 0 {
		return p
	}
	if len(p.segments) == 0 {
		return other
	}
	out := make([]string, 0, len(p.segments)+len(other.segments))
	out = append(out, p.segments...)
	out = append(out, other.segments...)
	return Path{segments: out}
}

// Canonical removes "." segments and resolves ".." against the preceding
// canonical segment. It returns false when a ".." has nothing to pop.
func (p Path) Canonical() (Path, bool) {
	out := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		switch s {
		case currentDir:
			continue
		case parentDir:
			if len(out) == 0 {
				return Path{}, false
			}
			out = out[:len(out)-1]
		default:
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Path{}, true
	}
	return Path{segments: out}, true
}

// IsCanonical reports whether p contains no "." or ".." segments.
func (p Path) IsCanonical() bool {
	for _, s := range p.segments {
		if s == currentDir || s == parentDir {
			return false
		}
	}
	return true
}

// ResolveAgainstDirectoryContext resolves p relative to the directory ctx.
// It is equivalent to ctx.Append(p).Canonical().
func (p Path) ResolveAgainstDirectoryContext(ctx Path) (Path, bool) {
	return ctx.Append(p).Canonical()
}

// ResolveAgainstFileContext resolves p relative to the directory containing
// the file ctx. A context without a parent resolves against the empty path.
func (p Path) ResolveAgainstFileContext(ctx Path) (Path, bool) {
	dir, ok := ctx.Parent()
	if !ok {
		dir = Path{}
	}
	return p.ResolveAgainstDirectoryContext(dir)
}

// StartsWith reports whether prefix's segments are a prefix of p's segments.
// The empty path is a prefix of every path.
func (p Path) StartsWith(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if p.segments[i] != s {
			return false
		}
	}
	return true
}

// TrimPrefix returns p with prefix removed. It returns false if prefix is not
// a prefix of p.
func (p Path) TrimPrefix(prefix Path) (Path, bool) {
	if !p.StartsWith(prefix) {
		return Path{}, false
	}
	rest := p.segments[len(prefix.segments):]
	if len(rest) == 0 {
		return Path{}, true
	}
	return Path{segments: slices.Clone(rest)}, true
}

// Equal reports whether both paths have the same segments. The comparison is
// syntactic: "a/./b" and "a/b" differ until canonicalized.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// String joins the segments with Separator. The empty path renders as "".
func (p Path) String() string {
	return strings.Join(p.segments, Separator)
}

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid relative path %q: %v", e.Text, e.Reason)
}

// Unwrap returns both the sentinel and the specific reason.
func (e *InvalidPathError) Unwrap() []error {
	return []error{ErrInvalidPath, e.Reason}
}
