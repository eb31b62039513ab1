// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"errors"

	"github.com/invowk/modrepo/pkg/locator"
)

// Open builds the repository named by a locator string: a plain absolute
// path opens a Directory, an "archive:" locator opens an Archive. Malformed
// locators and unsupported schemes fail with a ConstructionError wrapping
// the locator parse error.
func Open(text string, opts ...Option) (Repository, error) {
	loc, err := locator.Parse(text)
	if err != nil {
		kind := locator.ErrInvalidLocator
		if errors.Is(err, locator.ErrArchiveNotFound) {
			kind = ErrNotFound
		}
		return nil, &ConstructionError{Locator: text, Kind: kind, Cause: err}
	}
	return OpenLocator(loc, opts...)
}

// OpenLocator builds the repository rooted at loc.
func OpenLocator(loc locator.Locator, opts ...Option) (Repository, error) {
	o := buildOptions(opts)
	switch loc.Kind() {
	case locator.KindPlain:
		d, err := newDirectory(loc, o)
		if err != nil {
			return nil, err
		}
		return d, nil
	case locator.KindArchived:
		a, err := newArchive(loc, o)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, &ConstructionError{Locator: loc.String(), Kind: locator.ErrInvalidLocator}
	}
}
