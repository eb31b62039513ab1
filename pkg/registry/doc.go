// SPDX-License-Identifier: MPL-2.0

// Package registry composes repositories into an ordered search path.
//
// A Registry holds an optional built-in repository, searched first, followed
// by user repositories in insertion order. Top-level identifiers are offered
// to every repository; relative identifiers are offered only to repositories
// whose base contains the requiring module.
//
// Mutations are serialized by a writer lock and publish an immutable
// snapshot; resolution reads the current snapshot without locking.
package registry
