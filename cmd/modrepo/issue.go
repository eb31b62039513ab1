// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/modrepo/internal/config"
	"github.com/invowk/modrepo/internal/issue"
)

func newIssueCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issue [name]",
		Short: "Explain a known problem and how to fix it",
		Long: `Explain a known problem and how to fix it.

Without arguments, lists the known issue names. Error messages refer to
these names, e.g. "See 'modrepo issue module-not-found' for details."`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				app.printf("%s\n", TitleStyle.Render("Known issues"))
				for _, i := range issue.Values() {
					app.printf("  %s\n", CmdStyle.Render(i.Name()))
				}
				return nil
			}

			found := issue.ByName(args[0])
			if found == nil {
				return app.fail(usageErrorf("unknown issue %q (run 'modrepo issue' to list them)", args[0]))
			}

			rendered, err := found.Render(app.issueStyle(cmd))
			if err != nil {
				return app.fail(fmt.Errorf("render issue: %w", err))
			}
			app.printf("%s", rendered)
			return nil
		},
	}
}

// issueStyle maps ui.color_scheme to a glamour style. Configuration errors
// fall back to the default style.
func (a *App) issueStyle(cmd *cobra.Command) string {
	cfg, err := a.Config.Load(cmd.Context(), a.loadOptions())
	if err != nil {
		return ""
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		return cfg.UI.ColorScheme.String()
	default:
		return ""
	}
}
