// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modrepo.
//
// This package implements the Cobra command hierarchy for the modrepo CLI:
// module resolution (resolve, cat, owner), repository management (repo),
// configuration (config) and issue guidance (issue).
package cmd
