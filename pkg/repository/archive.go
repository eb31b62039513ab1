// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/relpath"
)

// Archive is a repository backed by a directory entry inside a zip archive.
// The archive is opened for each query and closed before the query returns.
type Archive struct {
	root        locator.Locator
	archiveRoot locator.Locator
	logger      *log.Logger
}

var _ Repository = (*Archive)(nil)

// NewArchive opens the zip archive at archivePath as a repository rooted at
// entry. The archive must be readable and, when entry is non-empty, contain
// a directory at entry.
func NewArchive(archivePath string, entry relpath.Path, opts ...Option) (*Archive, error) {
	loc, err := locator.Archived(archivePath, entry)
	if err != nil {
		return nil, &ConstructionError{Locator: archivePath, Kind: locator.ErrInvalidLocator, Cause: err}
	}
	return newArchive(loc, buildOptions(opts))
}

func newArchive(loc locator.Locator, o options) (*Archive, error) {
	name := loc.String()
	path := loc.ArchivePath().String()

	entry, ok := loc.Entry().Canonical()
	if !ok {
		return nil, &ConstructionError{Locator: name, Kind: ErrEntryNotDirectory}
	}
	root, err := locator.Archived(path, entry)
	if err != nil {
		return nil, &ConstructionError{Locator: name, Kind: locator.ErrInvalidLocator, Cause: err}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ConstructionError{Locator: name, Kind: ErrNotFound}
	case err != nil:
		return nil, &ConstructionError{Locator: name, Kind: ErrUnreadable, Cause: err}
	case !info.Mode().IsRegular():
		return nil, &ConstructionError{Locator: name, Kind: ErrNotArchive}
	}

	var entryType locator.EntryType
	err = locator.WithArchive(path, func(zr *zip.Reader) error {
		entryType = locator.StatEntry(zr, entry)
		return nil
	})
	switch {
	case errors.Is(err, zip.ErrFormat), errors.Is(err, zip.ErrAlgorithm):
		return nil, &ConstructionError{Locator: name, Kind: ErrNotArchive, Cause: err}
	case err != nil:
		return nil, &ConstructionError{Locator: name, Kind: ErrUnreadable, Cause: err}
	case entryType != locator.EntryDirectory:
		return nil, &ConstructionError{Locator: name, Kind: ErrEntryNotDirectory}
	}

	archiveRoot, err := locator.Archived(path, relpath.Path{})
	if err != nil {
		return nil, &ConstructionError{Locator: name, Kind: locator.ErrInvalidLocator, Cause: err}
	}
	return &Archive{root: root, archiveRoot: archiveRoot, logger: o.logger}, nil
}

// Base returns the archived locator of the repository root entry.
func (a *Archive) Base() locator.Locator { return a.root }

// Resolve resolves id inside the archive.
func (a *Archive) Resolve(id string, from locator.Locator) Result {
	return resolve(a, a.logger, id, from)
}

// String returns the locator string of the repository root.
func (a *Archive) String() string { return a.root.String() }

func (a *Archive) base() locator.Locator { return a.root }

// origin is the archive root, so relative identifiers that climb out of the
// base entry canonicalize and are then rejected by the base containment test.
func (a *Archive) origin() locator.Locator { return a.archiveRoot }

func (a *Archive) isLeaf(loc locator.Locator) (bool, string) {
	if !loc.RefersToReadableLeaf() {
		return false, reasonLeafMissing
	}
	return true, ""
}
