// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Invocation error codes.
const (
	CodeCommandNotFound       Code = "COMMAND_NOT_FOUND"
	CodeUnknownOption         Code = "UNKNOWN_OPTION"
	CodeArgRequired           Code = "ARG_REQUIRED"
	CodeOptionRequired        Code = "OPTION_REQUIRED"
	CodeOptionValueRequired   Code = "OPTION_VALUE_REQUIRED"
	CodeOptionValueUnexpected Code = "OPTION_VALUE_UNEXPECTED"
	CodeArgsExceeded          Code = "ARGS_EXCEEDED"
	CodeOptionRepeated        Code = "OPTION_REPEATED"
	CodeValidationFailed      Code = "VALIDATION_FAILED"
	CodeActionFailed          Code = "ACTION_FAILED"
	CodeCanceled              Code = "CANCELED"
	CodeEngineBusy            Code = "ENGINE_BUSY"
)

var (
	// ErrCommandNotFound is returned when no command matches the leading tokens.
	ErrCommandNotFound = errors.New("command not found")
	// ErrUnknownOption is returned for an option token the command does not declare.
	ErrUnknownOption = errors.New("unknown option")
	// ErrArgRequired is returned when a required positional argument is missing.
	ErrArgRequired = errors.New("argument required")
	// ErrOptionRequired is returned when a required option does not appear.
	ErrOptionRequired = errors.New("option required")
	// ErrOptionValueRequired is returned when an option needing a value was given none.
	ErrOptionValueRequired = errors.New("option value required")
	// ErrOptionValueUnexpected is returned when a boolean option was given a value.
	ErrOptionValueUnexpected = errors.New("option value unexpected")
	// ErrArgsExceeded is returned for surplus positional tokens.
	ErrArgsExceeded = errors.New("too many arguments")
	// ErrOptionRepeated is returned when a single-valued option is given twice.
	ErrOptionRepeated = errors.New("option repeated")
	// ErrValidationFailed is returned when a validator or a defaults/validators handler fails.
	ErrValidationFailed = errors.New("validation failed")
	// ErrActionFailed is returned when an action or actions handler fails.
	ErrActionFailed = errors.New("action failed")
	// ErrCanceled is returned when the context ends mid-invocation.
	ErrCanceled = errors.New("invocation canceled")
	// ErrEngineBusy is returned for a re-entrant Run.
	ErrEngineBusy = errors.New("engine busy")

	sentinels = map[Code]error{
		CodeCommandNotFound:       ErrCommandNotFound,
		CodeUnknownOption:         ErrUnknownOption,
		CodeArgRequired:           ErrArgRequired,
		CodeOptionRequired:        ErrOptionRequired,
		CodeOptionValueRequired:   ErrOptionValueRequired,
		CodeOptionValueUnexpected: ErrOptionValueUnexpected,
		CodeArgsExceeded:          ErrArgsExceeded,
		CodeOptionRepeated:        ErrOptionRepeated,
		CodeValidationFailed:      ErrValidationFailed,
		CodeActionFailed:          ErrActionFailed,
		CodeCanceled:              ErrCanceled,
		CodeEngineBusy:            ErrEngineBusy,
	}
)

type (
	// Code is the stable machine-readable identifier of an invocation error.
	Code string

	// Error is a user-facing invocation error.
	// It matches its code's sentinel with errors.Is.
	Error struct {
		Code Code
		// Command is the resolved command name, empty before resolution.
		Command string
		// Subject is the offending token, argument or option.
		Subject string
		Message string
		// Suggestions holds close command names for COMMAND_NOT_FOUND.
		Suggestions []string
		Cause       error
	}
)

func newError(code Code, command, subject, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Command: command,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Code))
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		sb.WriteString(" (did you mean ")
		for i, s := range e.Suggestions {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", s)
		}
		sb.WriteString("?)")
	}
	return sb.String()
}

// Unwrap returns the code's sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	var errs []error
	if s, ok := sentinels[e.Code]; ok {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
