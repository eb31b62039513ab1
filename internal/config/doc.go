// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/modrepo/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/modrepo/config.cue on macOS, %APPDATA%\modrepo\config.cue
// on Windows). It names the built-in repository, the ordered user repositories,
// UI preferences and the diagnostics log level. MODREPO_* environment variables
// override individual keys.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
//
// BuildRegistry restores a registry.Registry from a Config; AddRepository,
// RemoveRepository and MoveRepository edit the persisted repository list.
package config
