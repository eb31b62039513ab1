// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/modrepo/internal/config"
	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/moduleid"
	"github.com/invowk/modrepo/pkg/registry"
	"github.com/invowk/modrepo/pkg/repository"
	"github.com/invowk/modrepo/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference, and the
	// module registry is built from configuration per invocation instead of living
	// in a package global.
	App struct {
		Config ConfigProvider
		Open   config.RepositoryOpener
		stdout io.Writer
		stderr io.Writer

		configPath string
		verbose    bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Open builds repositories; nil selects repository.Open with the
		// invocation's logger.
		Open   config.RepositoryOpener
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(opts config.LoadOptions) (string, error)
	}

	// session is the per-invocation state derived from configuration.
	session struct {
		cfg    *config.Config
		logger *log.Logger
	}

	// renderedError displays an error in its user-facing form while keeping
	// the original reachable through errors.Is/As.
	renderedError struct {
		err     error
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		Open:   deps.Open,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}, nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)}
}

// session loads configuration and derives the logger. --verbose and
// ui.verbose force debug level; otherwise log.level applies.
func (a *App) session(ctx context.Context) (*session, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, a.fail(err)
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return &session{cfg: cfg, logger: a.newLogger(cfg)}, nil
}

func (a *App) newLogger(cfg *config.Config) *log.Logger {
	level := log.InfoLevel
	if cfg.Log.Level != "" {
		if parsed, err := log.ParseLevel(cfg.Log.Level.String()); err == nil {
			level = parsed
		}
	}
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

func (a *App) opener(logger *log.Logger) config.RepositoryOpener {
	if a.Open != nil {
		return a.Open
	}
	return config.Opener(repository.WithLogger(logger))
}

// registry restores the configured registry. Repositories that fail to open
// are reported as warnings and skipped.
func (a *App) registry(s *session) *registry.Registry {
	reg, diags := config.BuildRegistry(s.cfg, a.opener(s.logger), registry.WithLogger(s.logger))
	for _, d := range diags {
		a.warn(d)
	}
	return reg
}

// configForUpdate loads the configuration that a mutating command edits,
// along with the file it should be saved to. A missing file starts from
// defaults.
func (a *App) configForUpdate(ctx context.Context) (*config.Config, string, error) {
	opts := a.loadOptions()
	path, err := a.Config.Path(opts)
	if err != nil {
		return nil, "", a.fail(err)
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) && opts.ConfigFilePath != "" {
		return config.DefaultConfig(), path, nil
	}
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, "", a.fail(err)
	}
	return cfg, path, nil
}

func (a *App) warn(err error) {
	fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
}

// fail marks err for display and picks its exit status.
func (a *App) fail(err error) error {
	return &ExitError{Code: exitCodeFor(err), Err: &renderedError{err: err, verbose: a.verbose}}
}

// errNotOwned is reported when no registered repository contains a locator.
var errNotOwned = errors.New("no registered repository contains")

// usageError marks a malformed command argument.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func exitCodeFor(err error) types.ExitCode {
	var usage *usageError
	switch {
	case errors.Is(err, registry.ErrModuleNotFound), errors.Is(err, errNotOwned):
		return types.ExitNotFound
	case errors.As(err, &usage),
		errors.Is(err, moduleid.ErrInvalidModuleID),
		errors.Is(err, locator.ErrInvalidLocator):
		return types.ExitUsage
	default:
		return types.ExitFailure
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

func (e *renderedError) Error() string { return formatErrorForDisplay(e.err, e.verbose) }

func (e *renderedError) Unwrap() error { return e.err }
