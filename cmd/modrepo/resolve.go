// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/modrepo/internal/issue"
	"github.com/invowk/modrepo/pkg/locator"
	"github.com/invowk/modrepo/pkg/moduleid"
	"github.com/invowk/modrepo/pkg/registry"
	"github.com/invowk/modrepo/pkg/source"
)

func newResolveCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "resolve <id>",
		Short: "Print the location a module identifier resolves to",
		Long: `Resolve a module identifier the way require() does and print its locator.

Top-level identifiers search the built-in repository, then the user
repositories in order. Relative identifiers (./x, ../x) only search the
repository that contains --from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.lookup(cmd.Context(), args[0], from)
			if err != nil {
				return err
			}
			app.printf("%s\n", loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "locator of the requiring module")

	return cmd
}

func newCatCommand(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "cat <id>",
		Short: "Print the source of a resolved module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := app.lookup(cmd.Context(), args[0], from)
			if err != nil {
				return err
			}
			data, err := source.Read(loc)
			if err != nil {
				return app.fail(issue.NewErrorContext().
					WithOperation("read module").
					WithResource(loc.String()).
					WithSuggestion("Check that the module file is readable").
					Wrap(err).
					BuildError())
			}
			if _, err := app.stdout.Write(data); err != nil {
				return fmt.Errorf("write module source: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "locator of the requiring module")

	return cmd
}

func newOwnerCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "owner <locator>",
		Short: "Print the repository that contains a locator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locator.Parse(args[0])
			if err != nil {
				return app.fail(invalidLocatorError(args[0], err))
			}

			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			repo, ok := app.registry(s).RepositoryOwning(loc)
			if !ok {
				return app.fail(issue.NewErrorContext().
					WithOperation("find owning repository").
					WithResource(loc.String()).
					WithSuggestion("Run 'modrepo repo list' to see the registered repositories").
					Wrap(fmt.Errorf("%w %s", errNotOwned, loc)).
					BuildError())
			}
			app.printf("%s\n", repo.Base())
			return nil
		},
	}
}

// lookup resolves id against the configured registry. from is optional.
func (a *App) lookup(ctx context.Context, id, from string) (locator.Locator, error) {
	var fromLoc locator.Locator
	if from != "" {
		parsed, err := locator.Parse(from)
		if err != nil {
			return locator.Locator{}, a.fail(invalidLocatorError(from, err))
		}
		fromLoc = parsed
	}

	s, err := a.session(ctx)
	if err != nil {
		return locator.Locator{}, err
	}

	loc, err := a.registry(s).Lookup(id, fromLoc)
	if err != nil {
		return locator.Locator{}, a.fail(lookupError(id, fromLoc, err))
	}
	return loc, nil
}

func lookupError(id string, from locator.Locator, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("resolve module").
		WithResource(id)

	var notFound *registry.ModuleNotFoundError
	switch {
	case errors.As(err, &notFound):
		ctx.WithIssue(issue.ModuleNotFoundId).
			WithSuggestion("Run 'modrepo repo list' to see the searched repositories")
		if moduleid.IsRelative(id) && !from.IsZero() {
			ctx.WithSuggestion("Relative identifiers only search the repository containing " + from.String())
		}
	case errors.Is(err, moduleid.ErrInvalidModuleID):
		ctx.WithIssue(issue.InvalidModuleIDId).
			WithSuggestion("Use a name like 'lodash', a path like 'lodash/fp', or a relative path like './util'")
	}

	return ctx.Wrap(err).BuildError()
}

func invalidLocatorError(text string, err error) error {
	return issue.NewErrorContext().
		WithOperation("parse locator").
		WithResource(text).
		WithIssue(issue.InvalidLocatorId).
		WithSuggestion("Use an absolute path or archive:<absolute-path>!<entry>").
		Wrap(err).
		BuildError()
}
