// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/modrepo/pkg/locator"
)

const (
	// StatusNotFound means no repository entry matched. It is also the
	// outcome of containment violations and canonicalization failures.
	StatusNotFound Status = iota
	// StatusFound means Result.Location holds the resolved module.
	StatusFound
	// StatusInvalidInput means the module identifier was malformed;
	// Result.Err holds the parse error.
	StatusInvalidInput
)

var (
	// ErrNotDirectory is returned when a plain repository base is not a directory.
	ErrNotDirectory = errors.New("repository path is not a directory")
	// ErrNotArchive is returned when an archive repository's file is not a zip archive.
	ErrNotArchive = errors.New("repository file is not a zip archive")
	// ErrUnreadable is returned when the backing store exists but cannot be read.
	ErrUnreadable = errors.New("repository is not readable")
	// ErrNotFound is returned when the backing store does not exist.
	ErrNotFound = errors.New("repository does not exist")
	// ErrEntryNotDirectory is returned when an archive repository is rooted at
	// an entry that is missing or is not a directory.
	ErrEntryNotDirectory = errors.New("archive entry is not a directory")
)

type (
	// Status classifies a Result.
	Status int

	// Result is the outcome of a resolution.
	Result struct {
		Status   Status
		Location locator.Locator
		Err      error
	}

	// Repository resolves module identifiers inside one backing store.
	Repository interface {
		// Base is the root locator; every Found result lies at or below it.
		Base() locator.Locator
		// Resolve resolves id. A zero from means no requiring module.
		Resolve(id string, from locator.Locator) Result
		fmt.Stringer
	}

	// Option configures a repository.
	Option func(*options)

	options struct {
		logger *log.Logger
	}

	// ConstructionError is returned when a repository cannot be built from
	// its locator. It wraps one of the package sentinels and the underlying
	// cause when there is one.
	ConstructionError struct {
		Locator string
		Kind    error
		Cause   error
	}
)

// WithLogger sets the logger used for miss diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusInvalidInput:
		return "invalid input"
	default:
		return "not found"
	}
}

// Found reports whether the result holds a location.
func (r Result) Found() bool { return r.Status == StatusFound }

func found(loc locator.Locator) Result { return Result{Status: StatusFound, Location: loc} }

func notFound() Result { return Result{Status: StatusNotFound} }

func invalidInput(err error) Result { return Result{Status: StatusInvalidInput, Err: err} }

// Error implements the error interface for ConstructionError.
func (e *ConstructionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot open repository %q: %v: %v", e.Locator, e.Kind, e.Cause)
	}
	return fmt.Sprintf("cannot open repository %q: %v", e.Locator, e.Kind)
}

// Unwrap returns the sentinel and the cause for errors.Is() compatibility.
func (e *ConstructionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
