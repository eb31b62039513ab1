// SPDX-License-Identifier: MPL-2.0

// Package relpath models platform-neutral relative paths as immutable segment
// sequences.
//
// A [Path] may contain "." and ".." segments until it is canonicalized.
// Canonicalization never lets ".." climb above the path it is relative to:
// [Path.Canonical] reports failure instead. Module resolution relies on that
// property, so a path that fails to canonicalize must be treated as "not
// found" by callers rather than as an error.
package relpath
