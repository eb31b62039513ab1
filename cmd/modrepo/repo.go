// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/modrepo/internal/config"
	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/pkg/registry"
)

func newRepoCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage module repositories",
		Long: `Manage the user module repositories searched after the built-in one.

Repository locators are absolute directory paths or
archive:<absolute-zip-path>!<entry> for a directory inside a zip file.`,
	}

	cmd.AddCommand(
		newRepoListCommand(app),
		newRepoAddCommand(app),
		newRepoRemoveCommand(app),
		newRepoMoveCommand(app),
	)

	return cmd
}

func newRepoListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List repositories in search order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			reg := app.registry(s)

			app.printf("%s\n", TitleStyle.Render("Repositories"))
			if b := reg.Builtin(); b != nil {
				app.printf("  %s %s\n", SubtitleStyle.Render("builtin"), b.Base())
			}
			user := reg.UserRepositories()
			for i, repo := range user {
				app.printf("  %s %s\n", CmdStyle.Render(strconv.Itoa(i+1)+"."), repo.Base())
			}
			if reg.Builtin() == nil && len(user) == 0 {
				app.printf("  %s\n", SubtitleStyle.Render("(none configured)"))
			}
			return nil
		},
	}
}

func newRepoAddCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <locator>",
		Short: "Register a repository at the end of the search order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.configForUpdate(cmd.Context())
			if err != nil {
				return err
			}

			logger := app.newLogger(cfg)
			repo, err := app.opener(logger)(args[0])
			if err != nil {
				return app.fail(config.RepositoryError(args[0], err))
			}

			base := repo.Base().String()
			if !cfg.AddRepository(config.RepositoryLocator(base)) {
				app.printf("%s %s is already registered\n", WarningStyle.Render("!"), base)
				return nil
			}
			if err := config.SaveTo(path, cfg); err != nil {
				return app.fail(err)
			}
			logger.Debug("config saved", "path", path)
			app.printf("%s Added %s\n", SuccessStyle.Render("✓"), base)
			return nil
		},
	}
}

func newRepoRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <locator>",
		Short: "Unregister a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.configForUpdate(cmd.Context())
			if err != nil {
				return err
			}

			if !cfg.RemoveRepository(config.RepositoryLocator(args[0])) {
				return app.fail(notConfiguredError(args[0],
					fmt.Errorf("%w: %s", config.ErrRepositoryNotConfigured, args[0])))
			}
			if err := config.SaveTo(path, cfg); err != nil {
				return app.fail(err)
			}
			app.printf("%s Removed %s\n", SuccessStyle.Render("✓"), args[0])
			return nil
		},
	}
}

func newRepoMoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <locator> <position>",
		Short: "Change a repository's position in the search order (1 is searched first)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil {
				return app.fail(usageErrorf("invalid position %q: must be a number", args[1]))
			}

			cfg, path, err := app.configForUpdate(cmd.Context())
			if err != nil {
				return err
			}

			if err := cfg.MoveRepository(config.RepositoryLocator(args[0]), pos-1); err != nil {
				if errors.Is(err, registry.ErrIndexOutOfRange) {
					return app.fail(usageErrorf("position %d is out of range: %d repositories are configured", pos, len(cfg.Repositories)))
				}
				return app.fail(notConfiguredError(args[0], err))
			}
			if err := config.SaveTo(path, cfg); err != nil {
				return app.fail(err)
			}
			app.printf("%s Moved %s to position %d\n", SuccessStyle.Render("✓"), args[0], pos)
			return nil
		},
	}
}

func notConfiguredError(loc string, err error) error {
	return issue.NewErrorContext().
		WithOperation("edit repositories").
		WithResource(loc).
		WithSuggestion("Run 'modrepo repo list' to see the configured locators").
		Wrap(err).
		BuildError()
}
