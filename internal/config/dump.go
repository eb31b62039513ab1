// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

const (
	// FormatCUE renders the config file syntax.
	FormatCUE Format = "cue"
	// FormatTOML renders TOML.
	FormatTOML Format = "toml"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned when a Format value is not recognized.
var ErrInvalidFormat = errors.New("invalid dump format")

type (
	// Format selects the encoding used by Dump.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats lists the formats accepted by Dump.
func Formats() []Format {
	return []Format{FormatCUE, FormatTOML, FormatYAML, FormatJSON}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error if the Format is not recognized.
func (f Format) Validate() error {
	switch f {
	case FormatCUE, FormatTOML, FormatYAML, FormatJSON:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid dump format %q (valid: cue, toml, yaml, json)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Dump encodes cfg in the given format.
func Dump(cfg *Config, format Format) ([]byte, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)
	switch format {
	case FormatCUE:
		out = []byte(GenerateCUE(cfg))
	case FormatTOML:
		out, err = toml.Marshal(cfg)
	case FormatYAML:
		out, err = yaml.Marshal(cfg)
	case FormatJSON:
		out, err = json.MarshalIndent(cfg, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return nil, fmt.Errorf("encode config as %s: %w", format, err)
	}
	return out, nil
}
