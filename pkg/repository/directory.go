// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/invowk/modrepo/pkg/fspath"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/platform"
	"github.com/invowk/modrepo/pkg/types"
)

// Directory is a repository backed by a directory tree on the host filesystem.
type Directory struct {
	root locator.Locator
	// realRoot is root with symlinks resolved, captured at construction.
	realRoot types.FilesystemPath
	logger   *log.Logger
}

var _ Repository = (*Directory)(nil)

// NewDirectory opens the directory at path as a repository. The directory
// must exist and be listable.
func NewDirectory(path string, opts ...Option) (*Directory, error) {
	loc, err := locator.Plain(path)
	if err != nil {
		return nil, &ConstructionError{Locator: path, Kind: locator.ErrInvalidLocator, Cause: err}
	}
	return newDirectory(loc, buildOptions(opts))
}

func newDirectory(loc locator.Locator, o options) (*Directory, error) {
	p := loc.Path().String()
	info, err := os.Stat(p)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ConstructionError{Locator: p, Kind: ErrNotFound}
	case err != nil:
		return nil, &ConstructionError{Locator: p, Kind: ErrUnreadable, Cause: err}
	case !info.IsDir():
		return nil, &ConstructionError{Locator: p, Kind: ErrNotDirectory}
	}

	f, err := os.Open(p)
	if err != nil {
		return nil, &ConstructionError{Locator: p, Kind: ErrUnreadable, Cause: err}
	}
	_, err = f.ReadDir(1)
	_ = f.Close() // Listing probe only.
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConstructionError{Locator: p, Kind: ErrUnreadable, Cause: err}
	}

	realRoot, err := fspath.EvalSymlinks(loc.Path())
	if err != nil {
		return nil, &ConstructionError{Locator: p, Kind: ErrUnreadable, Cause: err}
	}

	return &Directory{root: loc, realRoot: realRoot, logger: o.logger}, nil
}

// Base returns the plain locator of the repository root.
func (d *Directory) Base() locator.Locator { return d.root }

// Resolve resolves id inside the directory tree.
func (d *Directory) Resolve(id string, from locator.Locator) Result {
	return resolve(d, d.logger, id, from)
}

// String returns the root path.
func (d *Directory) String() string { return d.root.String() }

func (d *Directory) base() locator.Locator { return d.root }

func (d *Directory) origin() locator.Locator { return d.root }

// isLeaf requires a readable regular file whose symlink-resolved path is
// still inside the symlink-resolved root. On Windows, device names are
// never modules.
func (d *Directory) isLeaf(loc locator.Locator) (bool, string) {
	if runtime.GOOS == platform.Windows && platform.IsWindowsReservedName(filepath.Base(loc.Path().String())) {
		return false, reasonReservedName
	}
	if !loc.RefersToReadableLeaf() {
		return false, reasonLeafMissing
	}
	resolved, err := fspath.EvalSymlinks(loc.Path())
	if err != nil {
		return false, reasonLeafMissing
	}
	if !fspath.Contains(d.realRoot, resolved) {
		return false, reasonContainment
	}
	return true, ""
}
