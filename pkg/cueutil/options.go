// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize bounds the size of a CUE document accepted by Decode.
const DefaultMaxFileSize int64 = 5 << 20

type (
	// Option configures Decode.
	Option func(*options)

	options struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() options {
	return options{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// displayName is the file name shown in errors and CUE positions.
func (o options) displayName() string {
	if o.filename == "" {
		return "<input>"
	}
	return o.filename
}

// WithFilename sets the filename used in error messages and CUE positions.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize. Non-positive values are ignored.
func WithMaxFileSize(size int64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxFileSize = size
		}
	}
}

// WithConcrete controls whether the unified value must be fully concrete.
// Partial documents (every field optional) should pass false.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
