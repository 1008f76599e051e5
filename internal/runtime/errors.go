// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrScriptFailed is the sentinel error wrapped by ScriptError.
	ErrScriptFailed = errors.New("script failed")
	// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
	ErrInvalidExitCode = errors.New("invalid exit code")
)

type (
	// ExitCode represents a script exit status.
	// Exit codes are in the range 0-255; the zero value means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}

	// ScriptError reports a script action that exited with a non-zero status.
	ScriptError struct {
		// Command is the command the action belongs to, "" for global actions.
		Command string
		Code    ExitCode
	}
)

func (e *ScriptError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("script exited with status %s", e.Code)
	}
	return fmt.Sprintf("%s: script exited with status %s", e.Command, e.Code)
}

// Unwrap returns ErrScriptFailed.
func (e *ScriptError) Unwrap() error { return ErrScriptFailed }

// ExitCodeOf returns the status of the first ScriptError in err's chain.
func ExitCodeOf(err error) (ExitCode, bool) {
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// IsValid returns whether the ExitCode is in the valid range (0-255).
func (c ExitCode) IsValid() (bool, []error) {
	if c < 0 || c > 255 {
		return false, []error{&InvalidExitCodeError{Value: c}}
	}
	return true, nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
