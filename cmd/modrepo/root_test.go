// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/invowk/modrepo/internal/config"
	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/moduleid"
	"github.com/invowk/modrepo/pkg/registry"
	"github.com/invowk/modrepo/pkg/types"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-01-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2026-01-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	root := NewRootCommand(app)

	for _, name := range []string{"resolve", "cat", "owner", "repo", "config", "issue"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered (err=%v)", name, err)
		}
	}
	for _, name := range []string{"list", "add", "remove", "move"} {
		if c, _, err := root.Find([]string{"repo", name}); err != nil || c.Name() != name {
			t.Errorf("repo subcommand %q not registered (err=%v)", name, err)
		}
	}
	for _, flag := range []string{"config", "verbose"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestNewApp_Defaults(t *testing.T) {
	t.Parallel()

	app, err := NewApp(Dependencies{})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.Config == nil || app.stdout == nil || app.stderr == nil {
		t.Errorf("NewApp() left defaults unset: %+v", app)
	}
	if app.Open != nil {
		t.Error("NewApp() set an opener; nil selects repository.Open per invocation")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   config.LogLevel
		verbose bool
		want    string
	}{
		{"default", "", false, "info"},
		{"configured", config.LogLevelWarn, false, "warn"},
		{"verbose overrides", config.LogLevelError, true, "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := &App{stderr: &strings.Builder{}, verbose: tt.verbose}
			cfg := config.DefaultConfig()
			cfg.Log.Level = tt.level

			if got := app.newLogger(cfg).GetLevel().String(); got != tt.want {
				t.Errorf("level = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	actionable := issue.NewErrorContext().
		WithOperation("open repository").
		WithResource("/srv/mods").
		WithSuggestion("Check the path").
		WithIssue(issue.RepositoryNotFoundId).
		Wrap(cause).
		BuildError()

	got := formatErrorForDisplay(actionable, false)
	for _, want := range []string{"failed to open repository: /srv/mods: boom", "Check the path", "modrepo issue repository-not-found"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay() missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Error chain:") {
		t.Error("non-verbose output contains the error chain")
	}
	if !strings.Contains(formatErrorForDisplay(actionable, true), "Error chain:") {
		t.Error("verbose output lacks the error chain")
	}

	if got := formatErrorForDisplay(cause, true); got != "boom" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := &ExitError{Code: 2, Err: cause}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}
	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() without cause = %q", got)
	}
}

func TestAppFail(t *testing.T) {
	t.Parallel()

	app := &App{verbose: false}
	cause := errors.New("boom")
	err := app.fail(cause)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("fail() = %#v, want *ExitError with code %d", err, types.ExitFailure)
	}
	if !errors.Is(err, cause) {
		t.Error("fail() hides the cause from errors.Is")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"plain", errors.New("boom"), types.ExitFailure},
		{"module miss", &registry.ModuleNotFoundError{ID: "x"}, types.ExitNotFound},
		{"no owner", fmt.Errorf("%w /srv/x.js", errNotOwned), types.ExitNotFound},
		{"invalid id", fmt.Errorf("wrap: %w", moduleid.ErrInvalidModuleID), types.ExitUsage},
		{"invalid locator", locator.ErrInvalidLocator, types.ExitUsage},
		{"usage", usageErrorf("unknown config key: %s", "x"), types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
