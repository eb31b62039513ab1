// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/moduleid"
	"github.com/invowk/modrepo/pkg/relpath"
)

// Miss reasons reported in debug logs.
const (
	reasonContextOutside  = "context outside repository"
	reasonContextError    = "context unreadable"
	reasonCanonical       = "canonicalization failed"
	reasonLeafMissing     = "leaf missing"
	reasonContainment     = "containment violation"
	reasonBaseOutsideRoot = "base outside store root"
	reasonReservedName    = "reserved device name"
)

// candidateSuffixes are tried in order against the resolved identifier.
var candidateSuffixes = [...]string{"", moduleid.ScriptExtension, "/index" + moduleid.ScriptExtension}

// store is the capability the resolution algorithm needs from a backing store.
type store interface {
	// base is the repository base locator.
	base() locator.Locator
	// origin is the locator that candidate paths are relative to. For a
	// directory it is the base itself; for an archive it is the archive root.
	origin() locator.Locator
	// isLeaf reports whether loc is an acceptable leaf, with a miss reason.
	isLeaf(loc locator.Locator) (bool, string)
}

// resolve runs the shared algorithm over s.
//
// Identifiers resolve against the resolution context of from, or the base
// when from is zero. A non-zero from must lie inside the repository. Callers
// that want top-level identifiers searched from the base pass a zero from,
// as the registry does.
func resolve(s store, logger *log.Logger, text string, from locator.Locator) Result {
	id, err := moduleid.Parse(text)
	if err != nil {
		return invalidInput(err)
	}

	base, origin := s.base(), s.origin()
	logger = logger.With("id", text, "repository", base.String())

	dir, ok := base.RelativeTo(origin)
	if !ok {
		logger.Debug("module not resolved", "reason", reasonBaseOutsideRoot)
		return notFound()
	}

	if !from.IsZero() {
		if !base.IsAncestorOf(from) {
			logger.Debug("module not resolved", "reason", reasonContextOutside, "from", from.String())
			return notFound()
		}
		ctx, err := from.ToResolutionContext()
		if err != nil {
			logger.Debug("module not resolved", "reason", reasonContextError, "from", from.String(), "err", err)
			return notFound()
		}
		if dir, ok = ctx.RelativeTo(origin); !ok {
			logger.Debug("module not resolved", "reason", reasonContextOutside, "from", ctx.String())
			return notFound()
		}
	}

	target, ok := id.Normalized().ResolveAgainst(dir)
	if !ok {
		logger.Debug("module not resolved", "reason", reasonCanonical, "dir", dir.String())
		return notFound()
	}

	for _, suffix := range candidateSuffixes {
		candidate, ok := withSuffix(target, suffix)
		if !ok {
			logger.Debug("candidate rejected", "reason", reasonCanonical, "suffix", suffix)
			continue
		}
		loc := origin.Child(candidate)
		if !base.IsAncestorOf(loc) {
			logger.Debug("candidate rejected", "reason", reasonContainment, "candidate", loc.String())
			continue
		}
		if leaf, reason := s.isLeaf(loc); !leaf {
			logger.Debug("candidate rejected", "reason", reason, "candidate", loc.String())
			continue
		}
		return found(loc)
	}

	logger.Debug("module not resolved", "reason", reasonLeafMissing)
	return notFound()
}

// withSuffix appends suffix to target at the string level, then re-parses
// and canonicalizes. "/index.js" on the empty path becomes "index.js".
func withSuffix(target relpath.Path, suffix string) (relpath.Path, bool) {
	text := target.String() + suffix
	if target.IsEmpty() {
		text = strings.TrimPrefix(text, relpath.Separator)
	}
	p, err := relpath.Parse(text)
	if err != nil {
		return relpath.Path{}, false
	}
	return p.Canonical()
}
