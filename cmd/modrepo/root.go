// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "modrepo",
		Short: "Resolve require() module identifiers across repositories",
		Long: TitleStyle.Render("modrepo") + SubtitleStyle.Render(" - require() module resolution across repositories") + `

modrepo resolves module identifiers against an ordered list of module
repositories: a built-in repository followed by user repositories, each
backed by a directory or by a directory inside a zip archive.

Identifiers starting with ./ or ../ are relative: they only search the
repository that contains the requiring module (--from).

` + SubtitleStyle.Render("Examples:") + `
  modrepo repo add /srv/modules                  Register a directory repository
  modrepo repo add 'archive:/srv/app.zip!lib'    Register an archive repository
  modrepo resolve lodash                         Print the location of a module
  modrepo resolve ./util --from /srv/modules/a.js
  modrepo cat lodash                             Print a module's source`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "log every resolution miss with its reason")
	root.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/modrepo/config.cue)")

	root.AddCommand(
		newResolveCommand(app),
		newCatCommand(app),
		newOwnerCommand(app),
		newRepoCommand(app),
		newConfigCommand(app),
		newIssueCommand(app),
	)

	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		return 1
	}

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return 1
	}
	return 0
}

// Execute runs the CLI and exits. This is called by main.main().
func Execute() {
	os.Exit(Main())
}
