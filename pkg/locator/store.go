// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"archive/zip"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/invowk/modrepo/pkg/fspath"
	"github.com/invowk/modrepo/pkg/relpath"
)

const (
	// EntryMissing means nothing exists at the locator.
	EntryMissing EntryType = iota
	// EntryFile is a regular file or a non-directory archive entry.
	EntryFile
	// EntryDirectory is a directory or an archive directory entry, explicit
	// or implied by deeper entries.
	EntryDirectory
	// EntryOther is a filesystem object that is neither (device, socket, ...).
	EntryOther
)

// EntryType classifies what a locator points at.
type EntryType int

// String returns a human-readable name for the entry type.
func (t EntryType) String() string {
	switch t {
	case EntryMissing:
		return "missing"
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	default:
		return "other"
	}
}

// Stat classifies the object l points at. Missing objects are reported as
// EntryMissing with a nil error; errors are reserved for store access
// failures such as an unreadable or corrupt archive.
func (l Locator) Stat() (EntryType, error) {
	switch l.kind {
	case KindPlain:
		info, err := os.Stat(l.path.String())
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return EntryMissing, nil
			}
			return EntryMissing, fmt.Errorf("stat %s: %w", l.path, err)
		}
		return entryTypeOf(info), nil
	case KindArchived:
		var t EntryType
		err := WithArchive(l.path.String(), func(zr *zip.Reader) error {
			t = StatEntry(zr, l.entry)
			return nil
		})
		return t, err
	default:
		return EntryMissing, &InvalidLocatorError{Reason: "zero locator"}
	}
}

// RefersToReadableLeaf reports whether l names a readable regular file or a
// non-directory archive entry in a readable archive.
func (l Locator) RefersToReadableLeaf() bool {
	t, err := l.Stat()
	if err != nil || t != EntryFile {
		return false
	}
	if l.kind != KindPlain {
		return true
	}
	f, err := os.Open(l.path.String())
	if err != nil {
		return false
	}
	_ = f.Close() // Read-only probe; close error carries no information.
	return true
}

// ToResolutionContext returns the container against which identifiers
// required from l are resolved: l itself when it is a container, otherwise
// its parent. A missing object is treated as a module file. Store access
// failures are returned rather than guessed around.
func (l Locator) ToResolutionContext() (Locator, error) {
	t, err := l.Stat()
	if err != nil {
		return Locator{}, err
	}
	if t == EntryDirectory {
		return l, nil
	}
	parent, ok := l.Parent()
	if !ok {
		return l, nil
	}
	return parent, nil
}

// Normalized resolves symlinks in the filesystem component and canonicalizes
// the entry path. It fails if the filesystem path cannot be resolved or the
// entry path climbs above the archive root.
func (l Locator) Normalized() (Locator, bool) {
	if l.kind == 0 {
		return Locator{}, false
	}
	resolved, err := fspath.EvalSymlinks(l.path)
	if err != nil {
		return Locator{}, false
	}
	resolved, err = fspath.Abs(resolved)
	if err != nil {
		return Locator{}, false
	}
	entry, ok := l.entry.Canonical()
	if !ok {
		return Locator{}, false
	}
	return Locator{kind: l.kind, path: resolved, entry: entry}, true
}

// WithArchive opens the zip archive at path, calls fn, and closes the archive
// on every return path.
func WithArchive(path string, fn func(*zip.Reader) error) (err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", path, err)
	}
	defer func() {
		if closeErr := zr.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive %s: %w", path, closeErr)
		}
	}()
	return fn(&zr.Reader)
}

// StatEntry classifies entry inside an open archive. The archive root is a
// directory. Entry paths are looked up in canonical form through the
// archive's fs.FS view, which also synthesizes implied directories and
// ignores a leading separator in stored names.
func StatEntry(zr *zip.Reader, entry relpath.Path) EntryType {
	canonical, ok := entry.Canonical()
	if !ok {
		return EntryMissing
	}
	if canonical.IsEmpty() {
		return EntryDirectory
	}
	info, err := fs.Stat(zr, canonical.String())
	if err != nil {
		return EntryMissing
	}
	return entryTypeOf(info)
}

func entryTypeOf(info fs.FileInfo) EntryType {
	switch {
	case info.IsDir():
		return EntryDirectory
	case info.Mode().IsRegular():
		return EntryFile
	default:
		return EntryOther
	}
}
