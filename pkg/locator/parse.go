// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"archive/zip"
	"os"
	"strings"

	"github.com/invowk/modrepo/pkg/fspath"
	"github.com/invowk/modrepo/pkg/relpath"
	"github.com/invowk/modrepo/pkg/types"
)

// Parse dispatches on the scheme token at the start of text. Text without a
// scheme is a plain absolute path; "archive:" text is parsed by ParseArchived;
// any other scheme is rejected with ErrUnsupportedScheme.
func Parse(text string) (Locator, error) {
	scheme, _, ok := splitScheme(text)
	if !ok {
		return ParsePlain(text)
	}
	if scheme == ArchiveScheme {
		return ParseArchived(text)
	}
	return Locator{}, &InvalidLocatorError{Value: text, Reason: "scheme " + scheme + ":", Cause: ErrUnsupportedScheme}
}

// ParsePlain parses the plain string form, which must be an absolute path in
// the platform's native syntax.
func ParsePlain(text string) (Locator, error) {
	if strings.TrimSpace(text) == "" {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "empty path"}
	}
	if !fspath.IsAbs(types.FilesystemPath(text)) {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "path must be absolute"}
	}
	return Plain(text)
}

// ParseArchived parses "archive:<absolute-archive-path>!<entry-path>".
//
// Archive paths may themselves contain EntrySeparator. The split point is the
// last separator whose prefix opens as a zip archive, so "/d/a!b.zip!x" names
// the archive "/d/a!b.zip" even when a file "/d/a" exists. When no prefix
// opens, the first prefix naming a regular file is used and the archive error
// surfaces on access. A single leading "/" on the entry path is accepted and
// dropped.
func ParseArchived(text string) (Locator, error) {
	scheme, rest, ok := splitScheme(text)
	if !ok || scheme != ArchiveScheme {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "missing " + ArchiveScheme + ": scheme"}
	}
	if !strings.Contains(rest, EntrySeparator) {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "missing " + EntrySeparator + " entry separator"}
	}

	split, fallback := -1, -1
	for i := 0; i < len(rest); i++ {
		if !strings.HasPrefix(rest[i:], EntrySeparator) {
			continue
		}
		archivePath := rest[:i]
		if !fspath.IsAbs(types.FilesystemPath(archivePath)) {
			return Locator{}, &InvalidLocatorError{Value: text, Reason: "archive path must be absolute"}
		}
		info, err := os.Stat(archivePath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		if opensAsArchive(archivePath) {
			split = i
		}
	}
	if split < 0 {
		split = fallback
	}
	if split < 0 {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "no existing archive file in locator", Cause: ErrArchiveNotFound}
	}

	entryText := strings.TrimPrefix(rest[split+len(EntrySeparator):], relpath.Separator)
	entry, err := relpath.Parse(entryText)
	if err != nil {
		return Locator{}, &InvalidLocatorError{Value: text, Reason: "invalid entry path", Cause: err}
	}
	return Archived(rest[:split], entry)
}

func opensAsArchive(path string) bool {
	return WithArchive(path, func(*zip.Reader) error { return nil }) == nil
}

// MustParse is like Parse but panics on error. Intended for tests.
func MustParse(text string) Locator {
	l, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return l
}

// splitScheme extracts a URI-style scheme. Single-letter schemes are treated
// as Windows drive letters and are not schemes.
func splitScheme(text string) (scheme, rest string, ok bool) {
	i := strings.Index(text, ":")
	if i < 2 {
		return "", text, false
	}
	for j, c := range text[:i] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case j > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", text, false
		}
	}
	return strings.ToLower(text[:i]), text[i+1:], true
}
