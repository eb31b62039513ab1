// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/invowk/modrepo/pkg/platform"
)

// HomeEnv is the variable os.UserHomeDir reads on this platform.
func HomeEnv() string {
	if runtime.GOOS == platform.Windows {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points HomeEnv at dir and returns a cleanup function restoring
// it. Config lookups that fall back to ~/.config then stay inside the test.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, HomeEnv(), dir)
}
