// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		wantErr bool
	}{
		{ColorSchemeAuto, false},
		{ColorSchemeDark, false},
		{ColorSchemeLight, false},
		{"", false},
		{"solarized", true},
		{"DARK", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			err := tt.scheme.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColorScheme) {
					t.Errorf("ColorScheme(%q).Validate() = %v, want ErrInvalidColorScheme", tt.scheme, err)
				}
			} else if err != nil {
				t.Errorf("ColorScheme(%q).Validate() unexpected error: %v", tt.scheme, err)
			}
		})
	}
}

func TestLogLevel_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level   LogLevel
		wantErr bool
	}{
		{LogLevelDebug, false},
		{LogLevelInfo, false},
		{LogLevelWarn, false},
		{LogLevelError, false},
		{"", false},
		{"trace", true},
		{"INFO", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			t.Parallel()
			err := tt.level.Validate()
			if tt.wantErr {
				var lvlErr *InvalidLogLevelError
				if !errors.As(err, &lvlErr) || lvlErr.Value != tt.level {
					t.Errorf("LogLevel(%q).Validate() = %v, want *InvalidLogLevelError", tt.level, err)
				}
				if !errors.Is(err, ErrInvalidLogLevel) {
					t.Error("error should wrap ErrInvalidLogLevel")
				}
			} else if err != nil {
				t.Errorf("LogLevel(%q).Validate() unexpected error: %v", tt.level, err)
			}
		})
	}
}

func TestRepositoryLocator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loc     RepositoryLocator
		wantErr bool
	}{
		{"absolute path", "/srv/modules", false},
		{"archive", "archive:/srv/app.zip!lib", false},
		{"relative path is left to the parser", "modules", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"leading space", " /srv", true},
		{"trailing newline", "/srv\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.loc.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRepositoryLocator) {
				t.Errorf("error should wrap ErrInvalidRepositoryLocator, got %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := DefaultConfig().Validate(); err != nil {
			t.Errorf("DefaultConfig().Validate() = %v", err)
		}
	})

	t.Run("collects every field error", func(t *testing.T) {
		t.Parallel()
		cfg := Config{
			Builtin:      " ",
			Repositories: []RepositoryLocator{"/ok", ""},
			UI:           UIConfig{ColorScheme: "neon"},
			Log:          LogConfig{Level: "loud"},
		}
		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
		}
		var cfgErr *InvalidConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("error should be *InvalidConfigError, got %T", err)
		}
		if len(cfgErr.FieldErrors) != 4 {
			t.Errorf("FieldErrors = %d, want 4: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
		}
		if !errors.Is(cfgErr.FieldErrors[2], ErrInvalidUIConfig) {
			t.Errorf("third error should be a UI config error, got %v", cfgErr.FieldErrors[2])
		}
		if !errors.Is(cfgErr.FieldErrors[3], ErrInvalidLogConfig) {
			t.Errorf("fourth error should be a log config error, got %v", cfgErr.FieldErrors[3])
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Builtin != "" {
		t.Errorf("Builtin = %q, want empty", cfg.Builtin)
	}
	if cfg.Repositories == nil || len(cfg.Repositories) != 0 {
		t.Errorf("Repositories = %#v, want empty non-nil slice", cfg.Repositories)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("UI.ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("UI.Verbose should default to false")
	}
	if cfg.Log.Level != LogLevelInfo {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}
