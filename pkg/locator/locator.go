// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/modrepo/pkg/fspath"
	"github.com/invowk/modrepo/pkg/relpath"
	"github.com/invowk/modrepo/pkg/types"
)

const (
	// KindPlain identifies a path on the host filesystem.
	KindPlain Kind = iota + 1
	// KindArchived identifies an entry inside a zip archive.
	KindArchived
)

const (
	// ArchiveScheme prefixes the string form of archived locators.
	ArchiveScheme = "archive"
	// EntrySeparator separates the archive file path from the entry path.
	EntrySeparator = "!"
)

var (
	// ErrInvalidLocator is the sentinel error wrapped by InvalidLocatorError.
	ErrInvalidLocator = errors.New("invalid module locator")
	// ErrUnsupportedScheme is returned when a locator string names a scheme
	// other than ArchiveScheme.
	ErrUnsupportedScheme = errors.New("unsupported locator scheme")
	// ErrArchiveNotFound is returned when no prefix of an archived locator
	// string names an existing archive file.
	ErrArchiveNotFound = errors.New("archive file not found")
)

type (
	// Kind distinguishes the two locator variants.
	Kind int

	// Locator is a plain filesystem path or an (archive, entry) pair.
	// The zero value is "no locator"; see IsZero.
	Locator struct {
		kind Kind
		// path is the cleaned absolute filesystem path for plain locators and
		// the cleaned absolute archive file path for archived ones.
		path  types.FilesystemPath
		entry relpath.Path
	}

	// InvalidLocatorError is returned when a locator cannot be constructed.
	// It wraps ErrInvalidLocator and, when present, the specific cause.
	InvalidLocatorError struct {
		Value  string
		Reason string
		Cause  error
	}
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Plain returns a plain locator for path. Relative paths are made absolute
// against the working directory.
func Plain(path string) (Locator, error) {
	fp := types.FilesystemPath(path)
	if err := fp.Validate(); err != nil {
		return Locator{}, &InvalidLocatorError{Value: path, Reason: "empty path", Cause: err}
	}
	abs, err := fspath.Abs(fp)
	if err != nil {
		return Locator{}, &InvalidLocatorError{Value: path, Reason: "cannot make path absolute", Cause: err}
	}
	return Locator{kind: KindPlain, path: abs}, nil
}

// Archived returns a locator for entry inside the archive at archivePath.
// The archive is not opened; use ParseArchived for validated input.
func Archived(archivePath string, entry relpath.Path) (Locator, error) {
	fp := types.FilesystemPath(archivePath)
	if err := fp.Validate(); err != nil {
		return Locator{}, &InvalidLocatorError{Value: archivePath, Reason: "empty archive path", Cause: err}
	}
	abs, err := fspath.Abs(fp)
	if err != nil {
		return Locator{}, &InvalidLocatorError{Value: archivePath, Reason: "cannot make archive path absolute", Cause: err}
	}
	return Locator{kind: KindArchived, path: abs, entry: entry}, nil
}

// Kind returns the locator variant, or 0 for the zero value.
func (l Locator) Kind() Kind { return l.kind }

// IsZero reports whether l is the zero value.
func (l Locator) IsZero() bool { return l.kind == 0 }

// IsPlain reports whether l names a host filesystem path.
func (l Locator) IsPlain() bool { return l.kind == KindPlain }

// IsArchived reports whether l names an archive entry.
func (l Locator) IsArchived() bool { return l.kind == KindArchived }

// Path returns the filesystem path of a plain locator, or "".
func (l Locator) Path() types.FilesystemPath {
	if l.kind != KindPlain {
		return ""
	}
	return l.path
}

// ArchivePath returns the archive file path of an archived locator, or "".
func (l Locator) ArchivePath() types.FilesystemPath {
	if l.kind != KindArchived {
		return ""
	}
	return l.path
}

// Entry returns the entry path of an archived locator. Plain locators return
// the empty path.
func (l Locator) Entry() relpath.Path {
	return l.entry
}

// String renders l in the form accepted by Parse.
func (l Locator) String() string {
	switch l.kind {
	case KindPlain:
		return l.path.String()
	case KindArchived:
		return ArchiveScheme + ":" + l.path.String() + EntrySeparator + l.entry.String()
	default:
		return ""
	}
}

// Equal reports whether both locators are the same variant with the same
// path and syntactically equal entry.
func (l Locator) Equal(other Locator) bool {
	return l.kind == other.kind && l.path == other.path && l.entry.Equal(other.entry)
}

// IsAncestorOf reports whether other lives in the same backing store as l and
// at or below l's path. Archive entries are compared in canonical form; an
// entry that fails to canonicalize has no ancestors.
func (l Locator) IsAncestorOf(other Locator) bool {
	if l.kind == 0 || l.kind != other.kind {
		return false
	}
	switch l.kind {
	case KindPlain:
		return isWithin(l.path, other.path)
	case KindArchived:
		if l.path != other.path {
			return false
		}
		mine, ok := l.entry.Canonical()
		if !ok {
			return false
		}
		theirs, ok := other.entry.Canonical()
		if !ok {
			return false
		}
		return theirs.StartsWith(mine)
	default:
		return false
	}
}

// Parent returns the locator of the container holding l. The filesystem root
// and the archive root have no parent.
func (l Locator) Parent() (Locator, bool) {
	switch l.kind {
	case KindPlain:
		dir := fspath.Dir(l.path)
		if dir == l.path {
			return Locator{}, false
		}
		return Locator{kind: KindPlain, path: dir}, true
	case KindArchived:
		parent, ok := l.entry.Parent()
		if !ok {
			return Locator{}, false
		}
		return Locator{kind: KindArchived, path: l.path, entry: parent}, true
	default:
		return Locator{}, false
	}
}

// Child returns the locator for rel below l. rel is appended verbatim;
// callers that need containment must canonicalize first.
func (l Locator) Child(rel relpath.Path) Locator {
	switch l.kind {
	case KindPlain:
		if rel.IsEmpty() {
			return l
		}
		return Locator{kind: KindPlain, path: fspath.JoinStr(l.path, filepath.FromSlash(rel.String()))}
	case KindArchived:
		return Locator{kind: KindArchived, path: l.path, entry: l.entry.Append(rel)}
	default:
		return l
	}
}

// RelativeTo returns l's position below ancestor as a relative path.
// It returns false unless ancestor.IsAncestorOf(l).
func (l Locator) RelativeTo(ancestor Locator) (relpath.Path, bool) {
	if !ancestor.IsAncestorOf(l) {
		return relpath.Path{}, false
	}
	switch l.kind {
	case KindPlain:
		rel, err := filepath.Rel(ancestor.path.String(), l.path.String())
		if err != nil {
			return relpath.Path{}, false
		}
		if rel == "." {
			return relpath.Path{}, true
		}
		p, err := relpath.Parse(filepath.ToSlash(rel))
		if err != nil {
			return relpath.Path{}, false
		}
		return p, true
	case KindArchived:
		mine, _ := l.entry.Canonical()
		theirs, _ := ancestor.entry.Canonical()
		return mine.TrimPrefix(theirs)
	default:
		return relpath.Path{}, false
	}
}

// isWithin reports whether p equals root or is below it, comparing whole
// path elements.
func isWithin(root, p types.FilesystemPath) bool {
	r, s := root.String(), p.String()
	if r == s {
		return true
	}
	if !strings.HasSuffix(r, string(filepath.Separator)) {
		r += string(filepath.Separator)
	}
	return strings.HasPrefix(s, r)
}

// Error implements the error interface for InvalidLocatorError.
func (e *InvalidLocatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid module locator %q: %s: %v", e.Value, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid module locator %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidLocator and the cause for errors.Is() compatibility.
func (e *InvalidLocatorError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidLocator, e.Cause}
	}
	return []error{ErrInvalidLocator}
}
