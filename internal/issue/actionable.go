// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// ActionableError is a user-facing failure: what modrepo was doing, on
	// which module, locator or file, and what the user can try next.
	//
	//	return issue.NewErrorContext().
	//		WithOperation("open repository").
	//		WithResource("archive:/srv/app.zip!lib").
	//		WithSuggestion("Check that the archive exists").
	//		WithIssue(issue.RepositoryNotFoundId).
	//		Wrap(err).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "resolve module".
		Operation string
		// Resource is the module id, locator or file involved, if any.
		Resource string
		// Suggestions are shown one per line under the message.
		Suggestions []string
		// Cause is the wrapped error.
		Cause error
		// Issue names catalog guidance shown by 'modrepo issue'.
		Issue Id
	}

	// ErrorContext accumulates the parts of an ActionableError. A context can
	// be prepared before the failing call and finished with Wrap.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issue       Id
	}
)

// NewErrorContext returns an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the cause so errors.Is and errors.As see sentinel errors
// such as registry.ErrModuleNotFound.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// HasSuggestions reports whether e carries any suggestion.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Format renders e for the terminal:
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <suggestion>
//
//	See 'modrepo issue <name>' for details.
//
// verbose appends every error of the unwrap chain, numbered from 1.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())
	e.writeSuggestions(&b)
	e.writeIssueHint(&b)
	if verbose {
		e.writeChain(&b)
	}
	return b.String()
}

func (e *ActionableError) writeSuggestions(b *strings.Builder) {
	if !e.HasSuggestions() {
		return
	}
	b.WriteString("\n")
	for _, s := range e.Suggestions {
		b.WriteString("\n  • " + s)
	}
}

func (e *ActionableError) writeIssueHint(b *strings.Builder) {
	if i := Get(e.Issue); i != nil {
		fmt.Fprintf(b, "\n\nSee 'modrepo issue %s' for details.", i.Name())
	}
}

func (e *ActionableError) writeChain(b *strings.Builder) {
	if e.Cause == nil {
		return
	}
	b.WriteString("\n\nError chain:")
	for depth, err := 1, e.Cause; err != nil; depth, err = depth+1, errors.Unwrap(err) {
		fmt.Fprintf(b, "\n  %d. %s", depth, err)
	}
}

// WithOperation sets the verb phrase, e.g. "resolve module".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the module id, locator or file involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends a hint. Repeated hints are kept once.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	if !slices.Contains(c.suggestions, sug) {
		c.suggestions = append(c.suggestions, sug)
	}
	return c
}

// WithIssue links the error to catalog guidance.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = id
	return c
}

// Wrap sets the underlying error.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the ActionableError, or nil when no operation was set.
// Later changes to c do not affect the result.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: slices.Clone(c.suggestions),
		Cause:       c.cause,
		Issue:       c.issue,
	}
}

// BuildError is Build as an error value. It returns an untyped nil when no
// operation was set, so callers can return it directly.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
