// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

type (
	// Schema is an embedded CUE source together with the definition that
	// user documents are unified with, e.g. "#Config".
	Schema struct {
		Source     string
		Definition string
	}

	// Result is a decoded document. Unified keeps the CUE value so callers
	// can inspect fields the Go type does not model.
	Result[T any] struct {
		Value   T
		Unified cue.Value
	}
)

// definition compiles the schema in ctx and returns its root definition.
// Failures here are programming errors in the embedded source.
func (s Schema) definition(ctx *cue.Context) (cue.Value, error) {
	compiled := ctx.CompileString(s.Source)
	if err := compiled.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := compiled.LookupPath(cue.ParsePath(s.Definition))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", s.Definition, err)
	}
	return def, nil
}

// Decode checks data against schema and decodes the unified value into T.
// User errors carry the file name and the CUE path of the offending field.
func Decode[T any](schema Schema, data []byte, opts ...Option) (*Result[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	name := o.displayName()

	if err := CheckFileSize(data, o.maxFileSize, name); err != nil {
		return nil, err
	}

	def, err := schema.definition(cuecontext.New())
	if err != nil {
		return nil, err
	}

	doc := def.Context().CompileBytes(data, cue.Filename(name))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, name)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, name)
	}

	res := &Result[T]{Unified: unified}
	if err := unified.Decode(&res.Value); err != nil {
		return nil, FormatError(err, name)
	}
	return res, nil
}
