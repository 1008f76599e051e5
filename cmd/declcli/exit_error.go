// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/declcli/internal/runtime"
	"github.com/invowk/declcli/pkg/engine"
)

const (
	// exitUser is used for invocation errors reported by the engine.
	exitUser = 1
	// exitSetup is used for configuration, manifest and declaration errors.
	exitSetup = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// An ExitError without Err has already been rendered to the user.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor picks the process exit code for err. A failing script action
// propagates its own status.
func exitCodeFor(err error) runtime.ExitCode {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if code, ok := runtime.ExitCodeOf(err); ok && !code.IsSuccess() {
		return code
	}
	if _, ok := engine.CodeOf(err); ok {
		return exitUser
	}
	return exitSetup
}
