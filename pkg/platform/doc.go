// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It holds the GOOS name constants used for platform switches and the
// Windows device-name check that keeps a directory repository from
// resolving a module to a device such as CON or NUL.
package platform
