// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs every resolution miss with its reason.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs repository construction failures and worse.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidRepositoryLocator is the sentinel error wrapped by InvalidRepositoryLocatorError.
	ErrInvalidRepositoryLocator = errors.New("invalid repository locator")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidLogConfig is the sentinel error wrapped by InvalidLogConfigError.
	ErrInvalidLogConfig = errors.New("invalid log config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level of diagnostics written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// RepositoryLocator is the string form of a repository base locator: an
	// absolute directory path or "archive:<abs-path>!<entry>".
	// Syntax and existence are checked when the repository is opened; here a
	// value only has to be non-blank and free of surrounding whitespace.
	RepositoryLocator string

	// InvalidRepositoryLocatorError is returned when a RepositoryLocator is
	// blank or padded with whitespace.
	InvalidRepositoryLocatorError struct {
		Value RepositoryLocator
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidLogConfigError is returned when a LogConfig has invalid fields.
	InvalidLogConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Builtin is the locator of the built-in repository, searched first.
		Builtin RepositoryLocator `json:"builtin,omitempty" mapstructure:"builtin" toml:"builtin,omitempty" yaml:"builtin,omitempty"`
		// Repositories lists user repositories in search priority order.
		Repositories []RepositoryLocator `json:"repositories" mapstructure:"repositories" toml:"repositories" yaml:"repositories"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui" toml:"ui" yaml:"ui"`
		// Log configures diagnostics
		Log LogConfig `json:"log" mapstructure:"log" toml:"log" yaml:"log"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme" yaml:"color_scheme"`
		// Verbose forces debug-level diagnostics
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
	}

	// LogConfig configures diagnostics output.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level" toml:"level" yaml:"level"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Repositories: []RepositoryLocator{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}

// Validate returns an InvalidConfigError collecting every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Builtin != "" {
		if err := c.Builtin.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, loc := range c.Repositories {
		if err := loc.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.UI.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate delegates to ColorScheme.Validate(); bool fields need no validation.
func (c UIConfig) Validate() error {
	var errs []error
	if err := c.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidUIConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// Validate delegates to Level.Validate().
func (c LogConfig) Validate() error {
	if err := c.Level.Validate(); err != nil {
		return &InvalidLogConfigError{FieldErrors: []error{err}}
	}
	return nil
}

// Error implements the error interface for InvalidLogConfigError.
func (e *InvalidLogConfigError) Error() string {
	return fmt.Sprintf("invalid log config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidLogConfig for errors.Is() compatibility.
func (e *InvalidLogConfigError) Unwrap() error { return ErrInvalidLogConfig }

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not one of the defined
// schemes. The zero value is treated as auto.
func (c ColorScheme) Validate() error {
	switch c {
	case "", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Validate returns an error if the LogLevel is not recognized. The zero
// value is treated as info.
func (l LogLevel) Validate() error {
	switch l {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the RepositoryLocator.
func (r RepositoryLocator) String() string { return string(r) }

// Validate returns an error if the locator is blank or has leading or
// trailing whitespace.
func (r RepositoryLocator) Validate() error {
	s := string(r)
	if strings.TrimSpace(s) == "" || strings.TrimSpace(s) != s {
		return &InvalidRepositoryLocatorError{Value: r}
	}
	return nil
}

// Error implements the error interface for InvalidRepositoryLocatorError.
func (e *InvalidRepositoryLocatorError) Error() string {
	return fmt.Sprintf("invalid repository locator %q: must be non-blank without surrounding whitespace", e.Value)
}

// Unwrap returns ErrInvalidRepositoryLocator for errors.Is() compatibility.
func (e *InvalidRepositoryLocatorError) Unwrap() error { return ErrInvalidRepositoryLocator }
