// SPDX-License-Identifier: MPL-2.0

package platform

// Values of runtime.GOOS that change how module files are located.
const (
	// Windows resolves reserved device names in every directory.
	Windows = "windows"
	// Darwin keeps user configuration under ~/Library/Application Support.
	Darwin = "darwin"
	// Linux follows the XDG base directory layout.
	Linux = "linux"
)
