// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/invowk/declcli/pkg/engine"
)

type (
	// ActionableError is a host-side error carrying what declcli was doing,
	// which manifest or config file was involved and how the user can fix it.
	//
	// Use the ErrorContext builder for construction:
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load manifest").
	//		WithResource("./cats.cue").
	//		WithIssue(issue.ManifestParseErrorId).
	//		Wrap(originalErr).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load manifest" or "run search".
		Operation string

		// Resource is the manifest, config file or argument involved (optional).
		Resource string

		Suggestions []string

		Cause error

		// Issue points at the catalog entry with longer guidance (optional).
		Issue Id
	}

	// ErrorContext is a builder for ActionableError. A context can be reused
	// after Build; each built error gets its own copy of the suggestions.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issue       Id
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// ForInvocation describes an engine error from the user's side: what to try
// next for its code. It returns nil when err carries no engine error.
func ForInvocation(err error) *ActionableError {
	var engErr *engine.Error
	if !errors.As(err, &engErr) {
		return nil
	}

	op := "run command"
	if engErr.Command != "" {
		op = "run " + engErr.Command
	}
	return &ActionableError{
		Operation:   op,
		Resource:    engErr.Subject,
		Suggestions: invocationHints(engErr),
		Cause:       err,
		Issue:       Id(engErr.Code),
	}
}

func invocationHints(e *engine.Error) []string {
	switch e.Code {
	case engine.CodeCommandNotFound:
		hints := make([]string, 0, len(e.Suggestions)+1)
		for _, s := range e.Suggestions {
			hints = append(hints, fmt.Sprintf("Did you mean %q?", s))
		}
		return append(hints, "Run 'declcli table <manifest>' to list the declared commands")
	case engine.CodeUnknownOption, engine.CodeOptionValueUnexpected:
		return []string{"Run 'declcli table <manifest>' to see the options of " + quoted(e.Command)}
	case engine.CodeArgRequired, engine.CodeArgsExceeded:
		return []string{"Check the positional arguments declared for " + quoted(e.Command)}
	case engine.CodeOptionRequired:
		return []string{"Pass " + e.Subject + " explicitly"}
	case engine.CodeOptionValueRequired:
		return []string{"Give " + e.Subject + " a value, e.g. " + e.Subject + "=<value>"}
	case engine.CodeOptionRepeated:
		return []string{"Pass " + e.Subject + " once, or declare it as multi to accept repeats"}
	case engine.CodeValidationFailed:
		return []string{"Check the value given for " + e.Subject}
	default:
		return nil
	}
}

func quoted(command string) string {
	if command == "" {
		return "the top-level command"
	}
	return "'" + command + "'"
}

// Error returns "failed to <operation>: <resource>: <cause>".
func (e *ActionableError) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for users:
//
//	failed to <operation>: <resource>: <cause message>
//	  • <suggestion 1>
//	  • <suggestion 2>
//
// In verbose mode the full cause chain follows, including every branch of
// errors that wrap more than one error.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		for i, link := range causeChain(e.Cause) {
			fmt.Fprintf(&msg, "\n  %d. %s", i+1, link)
		}
	}

	return msg.String()
}

// causeChain walks err depth-first. Engine errors unwrap to their code
// sentinel and their cause, so both show up.
func causeChain(err error) []string {
	var out []string
	stack := []error{err}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == nil {
			continue
		}
		out = append(out, cur.Error())
		switch u := cur.(type) {
		case interface{ Unwrap() []error }:
			children := u.Unwrap()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		case interface{ Unwrap() error }:
			stack = append(stack, u.Unwrap())
		}
	}
	return out
}

// HasSuggestions returns true if the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the manifest, file or argument involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion for how to fix the issue.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithSuggestions adds multiple suggestions at once.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates an ActionableError, or nil when no operation is set.
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

// BuildError is Build returning the error interface, nil when no operation is set.
func (c *ErrorContext) BuildError() error {
	ae := c.Build()
	if ae == nil {
		return nil
	}
	return ae
}
