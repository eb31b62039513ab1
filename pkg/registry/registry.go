// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/moduleid"
	"github.com/invowk/modrepo/pkg/repository"
)

var (
	// ErrModuleNotFound is the sentinel error wrapped by ModuleNotFoundError.
	ErrModuleNotFound = errors.New("module not found")
	// ErrRepositoryNotRegistered is returned by Move when no user repository
	// has the given base.
	ErrRepositoryNotRegistered = errors.New("repository not registered")
	// ErrIndexOutOfRange is returned by Move for a target index outside the
	// user repository list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

type (
	// Registry is an ordered collection of repositories. The zero value is
	// not usable; construct one with New.
	Registry struct {
		builtin repository.Repository
		logger  *log.Logger

		mu   sync.Mutex // serializes writers
		user atomic.Pointer[[]repository.Repository]
	}

	// Option configures a Registry.
	Option func(*Registry)

	// ModuleNotFoundError reports that no repository could resolve ID.
	ModuleNotFoundError struct {
		ID      string
		Context locator.Locator
	}
)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a registry with the given built-in repository, which may be nil.
func New(builtin repository.Repository, opts ...Option) *Registry {
	r := &Registry{builtin: builtin, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(r)
	}
	empty := []repository.Repository{}
	r.user.Store(&empty)
	return r
}

// Builtin returns the built-in repository, or nil.
func (r *Registry) Builtin() repository.Repository { return r.builtin }

// UserRepositories returns a copy of the user repositories in priority order.
func (r *Registry) UserRepositories() []repository.Repository {
	return slices.Clone(*r.user.Load())
}

// Repositories returns every repository in search order: the built-in
// repository first, then user repositories.
func (r *Registry) Repositories() []repository.Repository {
	user := *r.user.Load()
	all := make([]repository.Repository, 0, len(user)+1)
	if r.builtin != nil {
		all = append(all, r.builtin)
	}
	return append(all, user...)
}

// Add appends repo unless a repository with the same base is already
// registered. It reports whether repo was added.
func (r *Registry) Add(repo repository.Repository) bool {
	if repo == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.user.Load()
	if r.contains(current, repo.Base()) {
		r.logger.Debug("duplicate repository ignored", "repository", repo.String())
		return false
	}
	next := append(slices.Clone(current), repo)
	r.user.Store(&next)
	return true
}

// Remove drops every user repository whose base equals base and returns the
// number removed. The built-in repository cannot be removed.
func (r *Registry) Remove(base locator.Locator) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.user.Load()
	next := slices.DeleteFunc(slices.Clone(current), func(repo repository.Repository) bool {
		return repo.Base().Equal(base)
	})
	if removed := len(current) - len(next); removed > 0 {
		r.user.Store(&next)
		return removed
	}
	return 0
}

// SetAll replaces the user repositories with repos, dropping nil entries and
// later duplicates.
func (r *Registry) SetAll(repos []repository.Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]repository.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo == nil || r.contains(next, repo.Base()) {
			continue
		}
		next = append(next, repo)
	}
	r.user.Store(&next)
}

// Move moves the user repository with the given base to index, shifting the
// others. Index 0 is the highest user priority.
func (r *Registry) Move(base locator.Locator, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.user.Load()
	from := slices.IndexFunc(current, func(repo repository.Repository) bool {
		return repo.Base().Equal(base)
	})
	if from < 0 {
		return fmt.Errorf("move %s: %w", base, ErrRepositoryNotRegistered)
	}
	if index < 0 || index >= len(current) {
		return fmt.Errorf("move %s to %d of %d: %w", base, index, len(current), ErrIndexOutOfRange)
	}
	repo := current[from]
	next := slices.Delete(slices.Clone(current), from, from+1)
	next = slices.Insert(next, index, repo)
	r.user.Store(&next)
	return nil
}

// RepositoryOwning returns the first repository, in search order, whose base
// contains loc.
func (r *Registry) RepositoryOwning(loc locator.Locator) (repository.Repository, bool) {
	for _, repo := range r.Repositories() {
		if repo.Base().IsAncestorOf(loc) {
			return repo, true
		}
	}
	return nil, false
}

// Resolve offers id to every repository in search order and returns the
// first match.
func (r *Registry) Resolve(id string) repository.Result {
	if _, err := moduleid.Parse(id); err != nil {
		return repository.Result{Status: repository.StatusInvalidInput, Err: err}
	}
	return r.search(id, locator.Locator{}, r.Repositories())
}

// ResolveFrom resolves id as required by the module at from. Relative
// identifiers are offered only to repositories whose base contains from;
// top-level identifiers, and any identifier with a zero from, behave as in
// Resolve.
func (r *Registry) ResolveFrom(id string, from locator.Locator) repository.Result {
	parsed, err := moduleid.Parse(id)
	if err != nil {
		return repository.Result{Status: repository.StatusInvalidInput, Err: err}
	}
	if from.IsZero() || !parsed.IsRelative() {
		return r.search(id, locator.Locator{}, r.Repositories())
	}

	var owners []repository.Repository
	for _, repo := range r.Repositories() {
		if repo.Base().IsAncestorOf(from) {
			owners = append(owners, repo)
		}
	}
	if len(owners) == 0 {
		r.logger.Debug("no repository owns the requiring module", "id", id, "from", from.String())
	}
	return r.search(id, from, owners)
}

// Lookup resolves id the way a require() implementation does: it returns
// the module location, a *ModuleNotFoundError for every kind of miss, or the
// parse error for a malformed identifier.
func (r *Registry) Lookup(id string, from locator.Locator) (locator.Locator, error) {
	res := r.ResolveFrom(id, from)
	switch res.Status {
	case repository.StatusFound:
		return res.Location, nil
	case repository.StatusInvalidInput:
		return locator.Locator{}, res.Err
	default:
		return locator.Locator{}, &ModuleNotFoundError{ID: id, Context: from}
	}
}

func (r *Registry) search(id string, from locator.Locator, repos []repository.Repository) repository.Result {
	for _, repo := range repos {
		res := repo.Resolve(id, from)
		switch res.Status {
		case repository.StatusFound:
			r.logger.Debug("module resolved", "id", id, "repository", repo.String(), "location", res.Location.String())
			return res
		case repository.StatusInvalidInput:
			return res
		}
	}
	r.logger.Debug("module not found", "id", id, "searched", len(repos))
	return repository.Result{Status: repository.StatusNotFound}
}

func (r *Registry) contains(user []repository.Repository, base locator.Locator) bool {
	if r.builtin != nil && r.builtin.Base().Equal(base) {
		return true
	}
	return slices.ContainsFunc(user, func(repo repository.Repository) bool {
		return repo.Base().Equal(base)
	})
}

// Error implements the error interface for ModuleNotFoundError.
func (e *ModuleNotFoundError) Error() string {
	if e.Context.IsZero() {
		return fmt.Sprintf("module not found: %s", e.ID)
	}
	return fmt.Sprintf("module not found: %s (required from %s)", e.ID, e.Context)
}

// Unwrap returns ErrModuleNotFound for errors.Is() compatibility.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }
