// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/registry"
	"github.com/invowk/modrepo/pkg/repository"

	"golang.org/x/exp/slices"
)

// ErrRepositoryNotConfigured is returned when editing a repository that is
// not in Config.Repositories.
var ErrRepositoryNotConfigured = errors.New("repository is not configured")

// RepositoryOpener builds a repository from its locator string.
type RepositoryOpener func(text string) (repository.Repository, error)

// Opener returns a RepositoryOpener backed by repository.Open.
func Opener(opts ...repository.Option) RepositoryOpener {
	return func(text string) (repository.Repository, error) {
		return repository.Open(text, opts...)
	}
}

// BuildRegistry restores a registry from cfg: the built-in repository first,
// then every user repository in order. Repositories that cannot be opened are
// left out and reported as actionable errors; the registry is still usable.
func BuildRegistry(cfg *Config, open RepositoryOpener, opts ...registry.Option) (*registry.Registry, []error) {
	if open == nil {
		open = Opener()
	}

	var diags []error

	var builtin repository.Repository
	if cfg.Builtin != "" {
		repo, err := open(cfg.Builtin.String())
		if err != nil {
			diags = append(diags, RepositoryError(cfg.Builtin.String(), err))
		} else {
			builtin = repo
		}
	}

	repos := make([]repository.Repository, 0, len(cfg.Repositories))
	for _, loc := range cfg.Repositories {
		repo, err := open(loc.String())
		if err != nil {
			diags = append(diags, RepositoryError(loc.String(), err))
			continue
		}
		repos = append(repos, repo)
	}

	reg := registry.New(builtin, opts...)
	reg.SetAll(repos)
	return reg, diags
}

// RepositoryError wraps a repository construction failure with suggestions
// and the matching issue.
func RepositoryError(loc string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("open repository").
		WithResource(loc)

	switch {
	case errors.Is(err, fs.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId).
			WithSuggestion("Check that the repository is readable by the current user")
	case errors.Is(err, repository.ErrNotFound):
		ctx.WithIssue(issue.RepositoryNotFoundId).
			WithSuggestion("Check that the path exists").
			WithSuggestion(fmt.Sprintf("Remove it with 'modrepo repo remove %s'", loc))
	case errors.Is(err, repository.ErrNotDirectory):
		ctx.WithIssue(issue.NotADirectoryId).
			WithSuggestion("Plain repositories must be directories").
			WithSuggestion("For zip files use archive:<path>!<entry>")
	case errors.Is(err, repository.ErrNotArchive):
		ctx.WithIssue(issue.NotAnArchiveId).
			WithSuggestion("Archive repositories must be zip files")
	case errors.Is(err, repository.ErrEntryNotDirectory):
		ctx.WithIssue(issue.ArchiveEntryNotDirectoryId).
			WithSuggestion("Point the entry at a directory inside the archive, or leave it empty for the archive root")
	case errors.Is(err, locator.ErrInvalidLocator):
		ctx.WithIssue(issue.InvalidLocatorId).
			WithSuggestion("Use an absolute directory path or archive:<absolute-path>!<entry>")
	}

	return ctx.Wrap(err).BuildError()
}

// AddRepository appends loc unless an equivalent locator is already
// configured. It reports whether the list changed.
func (c *Config) AddRepository(loc RepositoryLocator) bool {
	if c.repositoryIndex(loc) >= 0 {
		return false
	}
	c.Repositories = append(c.Repositories, loc)
	return true
}

// RemoveRepository drops every entry equivalent to loc and reports whether
// any was removed.
func (c *Config) RemoveRepository(loc RepositoryLocator) bool {
	key := locatorKey(loc)
	n := len(c.Repositories)
	c.Repositories = slices.DeleteFunc(c.Repositories, func(r RepositoryLocator) bool {
		return locatorKey(r) == key
	})
	return len(c.Repositories) != n
}

// MoveRepository moves loc to index in the priority order.
func (c *Config) MoveRepository(loc RepositoryLocator, index int) error {
	i := c.repositoryIndex(loc)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRepositoryNotConfigured, loc)
	}
	if index < 0 || index >= len(c.Repositories) {
		return fmt.Errorf("%w: %d (have %d repositories)", registry.ErrIndexOutOfRange, index, len(c.Repositories))
	}
	entry := c.Repositories[i]
	c.Repositories = slices.Delete(c.Repositories, i, i+1)
	c.Repositories = slices.Insert(c.Repositories, index, entry)
	return nil
}

func (c *Config) repositoryIndex(loc RepositoryLocator) int {
	key := locatorKey(loc)
	return slices.IndexFunc(c.Repositories, func(r RepositoryLocator) bool {
		return locatorKey(r) == key
	})
}

// locatorKey is the comparison form of a configured locator: its normalized
// rendering when it parses, the raw text otherwise.
func locatorKey(loc RepositoryLocator) string {
	parsed, err := locator.Parse(loc.String())
	if err != nil {
		return loc.String()
	}
	if n, ok := parsed.Normalized(); ok {
		return n.String()
	}
	return parsed.String()
}
