// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

// ErrFileTooLarge is the sentinel error wrapped by FileTooLargeError.
var ErrFileTooLarge = errors.New("file too large")

type (
	// ValidationError is a single schema violation in a user document.
	ValidationError struct {
		// FilePath is the document's display name.
		FilePath string
		// CUEPath locates the offending value, e.g. "repositories[0]".
		CUEPath string
		// Message is CUE's description without the path prefix.
		Message string
	}

	// FileTooLargeError is returned by CheckFileSize.
	FileTooLargeError struct {
		FilePath string
		Size     int64
		Limit    int64
	}
)

// Error returns "<file>: <path>: <message>", omitting an empty path.
func (e *ValidationError) Error() string {
	if e.CUEPath == "" {
		return e.FilePath + ": " + e.Message
	}
	return e.FilePath + ": " + e.CUEPath + ": " + e.Message
}

// Error implements the error interface.
func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s: file size %d bytes exceeds maximum %d bytes", e.FilePath, e.Size, e.Limit)
}

// Unwrap returns ErrFileTooLarge.
func (e *FileTooLargeError) Unwrap() error { return ErrFileTooLarge }

// FormatError rewrites a CUE error for display against filePath. One
// violation becomes a *ValidationError; several become one error with a
// line per violation:
//
//	config.cue: validation failed:
//	  log.level: 4 errors in empty disjunction
//	  ui.verbose: conflicting values "yes" and bool
//
// Errors that do not come from CUE are wrapped with the file name.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	violations := make([]*ValidationError, 0, len(list))
	for _, e := range list {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			if rest, ok := strings.CutPrefix(msg, path); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
			}
		}
		violations = append(violations, &ValidationError{FilePath: filePath, CUEPath: path, Message: msg})
	}

	if len(violations) == 1 {
		return violations[0]
	}
	lines := make([]string, len(violations))
	for i, v := range violations {
		lines[i] = strings.TrimPrefix(v.Error(), filePath+": ")
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath joins CUE path elements, writing numeric elements after the
// first as indices: ["repositories", "0"] becomes "repositories[0]".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// CheckFileSize rejects data larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return &FileTooLargeError{FilePath: filename, Size: size, Limit: maxSize}
	}
	return nil
}
