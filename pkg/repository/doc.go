// SPDX-License-Identifier: MPL-2.0

// Package repository resolves module identifiers inside a single backing
// store: a directory tree (Directory) or a zip archive (Archive).
//
// Both stores share one resolution algorithm. An identifier is normalized,
// resolved against a container, and tried with the suffixes "", ".js" and
// "/index.js" in that order. A candidate is accepted only when it is a
// readable leaf of the store and lies at or below the repository base.
// Every kind of miss (bad canonicalization, containment violation, missing
// leaf, unreadable context) yields the same StatusNotFound result; the
// specific reason is logged at debug level only.
package repository
