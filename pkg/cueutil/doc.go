// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Decode compiles an embedded schema, unifies the user document with one of
// its definitions, validates the result and decodes it into a Go value.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var configSchema string
//
//	schema := cueutil.Schema{Source: configSchema, Definition: "#Config"}
//	result, err := cueutil.Decode[map[string]any](schema, data,
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//	if err != nil {
//	    return err // includes the CUE path of the offending field
//	}
package cueutil
