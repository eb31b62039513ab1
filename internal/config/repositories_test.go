// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/internal/testutil"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/registry"
	"github.com/invowk/modrepo/pkg/repository"
)

func TestBuildRegistry(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	core := testutil.MustWriteTree(t, filepath.Join(tmp, "core"), map[string]string{"assert.js": "core"})
	user := testutil.MustWriteTree(t, filepath.Join(tmp, "user"), map[string]string{"assert.js": "user", "util.js": "u"})
	zipPath := testutil.MustWriteZip(t, filepath.Join(tmp, "app.zip"), map[string]string{"lib/x.js": "x"})
	file := filepath.Join(tmp, "file.txt")
	testutil.MustWriteFile(t, file, "not a dir")

	cfg := DefaultConfig()
	cfg.Builtin = RepositoryLocator(core)
	cfg.Repositories = []RepositoryLocator{
		RepositoryLocator(user),
		RepositoryLocator(filepath.Join(tmp, "missing")),
		RepositoryLocator("archive:" + zipPath + "!lib"),
		RepositoryLocator(file),
	}

	reg, diags := BuildRegistry(cfg, Opener())
	if reg.Builtin() == nil {
		t.Fatal("builtin repository not opened")
	}
	if got := len(reg.UserRepositories()); got != 2 {
		t.Fatalf("user repositories = %d, want 2", got)
	}
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want 2", diags)
	}

	wantIssues := []issue.Id{issue.RepositoryNotFoundId, issue.NotADirectoryId}
	for i, d := range diags {
		var ae *issue.ActionableError
		if !errors.As(d, &ae) {
			t.Fatalf("diag %d = %T, want *issue.ActionableError", i, d)
		}
		if ae.Issue != wantIssues[i] {
			t.Errorf("diag %d issue = %v, want %v", i, ae.Issue, wantIssues[i])
		}
	}

	// The built-in repository wins for top-level ids.
	res := reg.Resolve("assert")
	if !res.Found() || res.Location.String() != filepath.Join(core, "assert.js") {
		t.Errorf("Resolve(assert) = %+v, want builtin copy", res)
	}
	if res := reg.Resolve("x"); !res.Found() {
		t.Errorf("Resolve(x) should find the archive module, got %+v", res)
	}
}

func TestBuildRegistry_FailedBuiltin(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Builtin = "relative/path"

	reg, diags := BuildRegistry(cfg, nil)
	if reg.Builtin() != nil {
		t.Error("failed builtin must not be registered")
	}
	if len(diags) != 1 || !errors.Is(diags[0], locator.ErrInvalidLocator) {
		t.Errorf("diags = %v, want one invalid locator error", diags)
	}
}

func TestBuildRegistry_CustomOpener(t *testing.T) {
	t.Parallel()

	var opened []string
	open := func(text string) (repository.Repository, error) {
		opened = append(opened, text)
		return nil, errors.New("boom")
	}

	cfg := DefaultConfig()
	cfg.Builtin = "/core"
	cfg.Repositories = []RepositoryLocator{"/a", "/b"}
	_, diags := BuildRegistry(cfg, open)

	if len(opened) != 3 || opened[0] != "/core" || opened[1] != "/a" || opened[2] != "/b" {
		t.Errorf("opened = %v, want builtin then repositories in order", opened)
	}
	if len(diags) != 3 {
		t.Errorf("diags = %d, want 3", len(diags))
	}
}

func TestRepositoryError(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	file := filepath.Join(tmp, "f.js")
	testutil.MustWriteFile(t, file, "x")
	notZip := filepath.Join(tmp, "bad.zip")
	testutil.MustWriteFile(t, notZip, "not a zip")
	zipPath := testutil.MustWriteZip(t, filepath.Join(tmp, "ok.zip"), map[string]string{"lib/a.js": "a"})

	tests := []struct {
		name string
		loc  string
		want issue.Id
	}{
		{"missing directory", filepath.Join(tmp, "nope"), issue.RepositoryNotFoundId},
		{"missing archive", "archive:" + filepath.Join(tmp, "nope.zip") + "!", issue.RepositoryNotFoundId},
		{"file as directory", file, issue.NotADirectoryId},
		{"not a zip", "archive:" + notZip + "!", issue.NotAnArchiveId},
		{"entry is a file", "archive:" + zipPath + "!lib/a.js", issue.ArchiveEntryNotDirectoryId},
		{"unsupported scheme", "https://example.com/mods", issue.InvalidLocatorId},
		{"relative path", "mods", issue.InvalidLocatorId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := repository.Open(tt.loc)
			if err == nil {
				t.Fatalf("Open(%q) succeeded", tt.loc)
			}
			wrapped := RepositoryError(tt.loc, err)

			var ae *issue.ActionableError
			if !errors.As(wrapped, &ae) {
				t.Fatalf("RepositoryError() = %T", wrapped)
			}
			if ae.Issue != tt.want {
				t.Errorf("Issue = %v, want %v (cause %v)", ae.Issue, tt.want, err)
			}
			if ae.Resource != tt.loc || ae.Operation != "open repository" {
				t.Errorf("ActionableError = %+v", ae)
			}
			if !ae.HasSuggestions() {
				t.Error("expected suggestions")
			}
			if !errors.Is(wrapped, err) {
				t.Error("cause must stay reachable through errors.Is")
			}
		})
	}
}

func TestConfig_AddRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "sub"), 0o755)
	cfg := DefaultConfig()

	if !cfg.AddRepository(RepositoryLocator(dir)) {
		t.Fatal("first add should succeed")
	}
	if cfg.AddRepository(RepositoryLocator(dir)) {
		t.Error("identical locator should be ignored")
	}
	if cfg.AddRepository(RepositoryLocator(filepath.Join(dir, "sub", ".."))) {
		t.Error("equivalent locator should be ignored after normalization")
	}
	if !cfg.AddRepository("/does/not/exist") {
		t.Error("unparseable-for-now locators are still recorded")
	}
	if len(cfg.Repositories) != 2 {
		t.Errorf("Repositories = %v", cfg.Repositories)
	}
}

func TestConfig_RemoveRepository(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Repositories = []RepositoryLocator{"/a", "/b", "/a"}

	if !cfg.RemoveRepository("/a") {
		t.Fatal("RemoveRepository(/a) = false")
	}
	if len(cfg.Repositories) != 1 || cfg.Repositories[0] != "/b" {
		t.Errorf("Repositories = %v, want [/b]", cfg.Repositories)
	}
	if cfg.RemoveRepository("/zzz") {
		t.Error("removing an unknown locator should report false")
	}
}

func TestConfig_MoveRepository(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Repositories = []RepositoryLocator{"/a", "/b", "/c"}

	if err := cfg.MoveRepository("/c", 0); err != nil {
		t.Fatalf("MoveRepository() error = %v", err)
	}
	want := []RepositoryLocator{"/c", "/a", "/b"}
	for i := range want {
		if cfg.Repositories[i] != want[i] {
			t.Fatalf("Repositories = %v, want %v", cfg.Repositories, want)
		}
	}

	if err := cfg.MoveRepository("/zzz", 0); !errors.Is(err, ErrRepositoryNotConfigured) {
		t.Errorf("unknown locator error = %v", err)
	}
	if err := cfg.MoveRepository("/a", 3); !errors.Is(err, registry.ErrIndexOutOfRange) {
		t.Errorf("out of range error = %v", err)
	}
	if err := cfg.MoveRepository("/a", -1); !errors.Is(err, registry.ErrIndexOutOfRange) {
		t.Errorf("negative index error = %v", err)
	}
}
