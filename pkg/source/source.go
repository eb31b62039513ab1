// SPDX-License-Identifier: MPL-2.0

// Package source reads the bytes of a resolved module: the whole file for a
// plain locator, the entry contents for an archived one.
package source

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/invowk/modrepo/pkg/locator"
)

// MaxSourceSize bounds the size of a module read by Read (8 MiB).
const MaxSourceSize int64 = 8 << 20

var (
	// ErrNotLeaf is returned when the locator names a directory or other
	// non-file object.
	ErrNotLeaf = errors.New("not a module file")
	// ErrTooLarge is returned when a module exceeds the size limit.
	ErrTooLarge = errors.New("module source exceeds size limit")
)

// Read returns the source of the module at loc, bounded by MaxSourceSize.
func Read(loc locator.Locator) ([]byte, error) {
	return ReadLimit(loc, MaxSourceSize)
}

// ReadLimit returns the source of the module at loc, failing with
// ErrTooLarge when it is larger than limit bytes. Archives are opened for
// the duration of the call only.
func ReadLimit(loc locator.Locator, limit int64) ([]byte, error) {
	switch loc.Kind() {
	case locator.KindPlain:
		return readFile(loc.Path().String(), limit)
	case locator.KindArchived:
		var data []byte
		err := locator.WithArchive(loc.ArchivePath().String(), func(zr *zip.Reader) error {
			var readErr error
			data, readErr = readEntry(zr, loc, limit)
			return readErr
		})
		return data, err
	default:
		return nil, fmt.Errorf("read module: %w", locator.ErrInvalidLocator)
	}
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	defer func() { _ = f.Close() }() // Read-only file; close error is non-actionable.

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("read module %s: %w", path, ErrNotLeaf)
	}
	return readLimited(f, info.Size(), limit, path)
}

func readEntry(zr *zip.Reader, loc locator.Locator, limit int64) ([]byte, error) {
	entry, ok := loc.Entry().Canonical()
	if !ok || entry.IsEmpty() {
		return nil, fmt.Errorf("read module %s: %w", loc, ErrNotLeaf)
	}
	f, err := zr.Open(entry.String())
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", loc, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", loc, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("read module %s: %w", loc, ErrNotLeaf)
	}
	return readLimited(f, info.Size(), limit, loc.String())
}

// readLimited reads at most limit bytes from r. The declared size is
// checked first; the limited read catches files that grow or archives
// whose headers understate the entry size.
func readLimited(r io.Reader, size, limit int64, name string) ([]byte, error) {
	if size > limit {
		return nil, fmt.Errorf("%s: %d bytes exceeds %d: %w", name, size, limit, ErrTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read module %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: exceeds %d bytes: %w", name, limit, ErrTooLarge)
	}
	return data, nil
}

// IsNotExist reports whether err means the module file or entry is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
