// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"

	"github.com/invowk/modrepo/pkg/platform"
)

func TestHomeEnv(t *testing.T) {
	t.Parallel()

	want := "HOME"
	if runtime.GOOS == platform.Windows {
		want = "USERPROFILE"
	}
	if got := HomeEnv(); got != want {
		t.Errorf("HomeEnv() = %q, want %q", got, want)
	}
}

func TestSetHomeDir(t *testing.T) {
	dir := t.TempDir()
	original, hadOriginal := os.LookupEnv(HomeEnv())

	restore := SetHomeDir(t, dir)
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("os.UserHomeDir() error = %v", err)
	}
	if home != dir {
		t.Errorf("os.UserHomeDir() = %q, want %q", home, dir)
	}

	restore()
	got, ok := os.LookupEnv(HomeEnv())
	if ok != hadOriginal || got != original {
		t.Errorf("after restore %s = %q (set=%v), want %q (set=%v)", HomeEnv(), got, ok, original, hadOriginal)
	}
}

func TestSetHomeDir_Cleanup(t *testing.T) {
	original := os.Getenv(HomeEnv())
	dir := t.TempDir()

	t.Run("scoped", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, dir))
		if got := os.Getenv(HomeEnv()); got != dir {
			t.Errorf("%s = %q, want %q", HomeEnv(), got, dir)
		}
	})

	if got := os.Getenv(HomeEnv()); got != original {
		t.Errorf("%s after subtest = %q, want %q", HomeEnv(), got, original)
	}
}
