// SPDX-License-Identifier: MPL-2.0

// Package locator identifies loadable module sources.
//
// A [Locator] is either plain, naming a path on the host filesystem, or
// archived, naming an entry inside a zip archive. The string form used for
// configuration and display is:
//
//	/abs/path/to/file.js                  plain
//	archive:/abs/path/to/app.zip!lib/x.js archived
//
// Locators are values. Operations that need the backing store
// ([Locator.Stat], [Locator.RefersToReadableLeaf],
// [Locator.ToResolutionContext], [Locator.Normalized]) open it for the
// duration of the call only.
package locator
