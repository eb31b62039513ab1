// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// MustWriteZip creates a zip archive at path containing entries. Keys are
// stored verbatim as entry names, so a key ending in "/" becomes an explicit
// directory entry. Entries are written in sorted order.
func MustWriteZip(t testing.TB, path string, entries map[string]string) string {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path), 0o755)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer MustClose(t, f)

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", name, err)
		}
		if name[len(name)-1] == '/' {
			continue
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to finalize zip %s: %v", path, err)
	}
	return path
}
