// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/modrepo/internal/config"
)

// newConfigCommand creates the `modrepo config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modrepo configuration",
		Long: `Manage modrepo configuration.

Configuration is stored in:
  - Linux: ~/.config/modrepo/config.cue
  - macOS: ~/Library/Application Support/modrepo/config.cue
  - Windows: %APPDATA%\modrepo\config.cue

Environment variables override file values, e.g. MODREPO_LOG_LEVEL=debug.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Config.Path(app.loadOptions())
			if err != nil {
				return app.fail(err)
			}
			app.printf("%s\n", path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Keys: builtin, ui.color_scheme, ui.verbose, log.level.
Use 'modrepo repo' to edit the repository list.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions())
			if err != nil {
				return app.fail(err)
			}
			out, err := config.Dump(cfg, config.Format(format))
			if err != nil {
				return app.fail(err)
			}
			if _, err := app.stdout.Write(out); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", config.FormatCUE.String(), "output format: cue, toml, yaml or json")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	opts := app.loadOptions()
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return app.fail(err)
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	app.printf("%s\n\n", TitleStyle.Render("Current Configuration"))

	cfgPath, pathErr := app.Config.Path(opts)
	if pathErr == nil && fileExistsCheck(cfgPath) {
		app.printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		app.printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	app.printf("\n")

	if cfg.Builtin != "" {
		app.printf("%s: %s\n", keyStyle.Render("builtin"), valueStyle.Render(cfg.Builtin.String()))
	} else {
		app.printf("%s: %s\n", keyStyle.Render("builtin"), SubtitleStyle.Render("(none)"))
	}

	app.printf("\n%s:\n", keyStyle.Render("repositories"))
	if len(cfg.Repositories) == 0 {
		app.printf("  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, loc := range cfg.Repositories {
			app.printf("  - %s\n", valueStyle.Render(loc.String()))
		}
	}

	app.printf("\n%s:\n", keyStyle.Render("ui"))
	app.printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	app.printf("  verbose: %s\n", valueStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))

	app.printf("\n%s:\n", keyStyle.Render("log"))
	app.printf("  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))

	return nil
}

func initConfig(app *App, force bool) error {
	path, err := app.Config.Path(app.loadOptions())
	if err != nil {
		return app.fail(err)
	}

	if force {
		if err := config.SaveTo(path, config.DefaultConfig()); err != nil {
			return app.fail(fmt.Errorf("failed to create config: %w", err))
		}
	} else {
		created, err := config.CreateDefaultConfig(path)
		if err != nil {
			return app.fail(fmt.Errorf("failed to create config: %w", err))
		}
		if !created {
			app.printf("%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
			return nil
		}
	}

	app.printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, path, err := app.configForUpdate(ctx)
	if err != nil {
		return err
	}

	switch key {
	case "builtin":
		cfg.Builtin = config.RepositoryLocator(value)
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		verbose, parseErr := strconv.ParseBool(value)
		if parseErr != nil {
			return app.fail(usageErrorf("invalid value for ui.verbose: %q (expected true or false)", value))
		}
		cfg.UI.Verbose = verbose
	case "log.level":
		cfg.Log.Level = config.LogLevel(value)
	default:
		return app.fail(usageErrorf("unknown config key: %s (valid: builtin, ui.color_scheme, ui.verbose, log.level)", key))
	}

	if err := cfg.Validate(); err != nil {
		return app.fail(err)
	}
	if err := config.SaveTo(path, cfg); err != nil {
		return app.fail(err)
	}

	app.printf("%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
