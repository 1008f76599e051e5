// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/invowk/declcli/internal/issue"
	"github.com/invowk/declcli/internal/runtime"
	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/engine"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2026-06-15T10:00:00Z"

		want := "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	withCause := &ExitError{Code: 3, Err: cause}
	if withCause.Error() != "boom" || !errors.Is(withCause, cause) {
		t.Errorf("ExitError with cause = %q", withCause.Error())
	}
	if bare := (&ExitError{Code: 5}); bare.Error() != "exit status 5" {
		t.Errorf("bare ExitError = %q", bare.Error())
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	scriptFailure := &engine.Error{
		Code:  engine.CodeActionFailed,
		Cause: &runtime.ScriptError{Command: "deploy", Code: 9},
	}

	tests := []struct {
		name string
		err  error
		want runtime.ExitCode
	}{
		{"rendered exit error", &ExitError{Code: 7}, 7},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: 6}), 6},
		{"script status", scriptFailure, 9},
		{"engine error", &engine.Error{Code: engine.CodeUnknownOption}, exitUser},
		{"declaration error", decl.NewDeclarationError(decl.CodeDuplicateCommand, "x", "dup"), exitSetup},
		{"other", os.ErrNotExist, exitSetup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	engErr := &engine.Error{
		Code:        engine.CodeCommandNotFound,
		Message:     `unknown command "serch"`,
		Suggestions: []string{"search"},
	}
	out := renderError(engErr, false, "notty")
	for _, want := range []string{"COMMAND_NOT_FOUND", `unknown command "serch"`, `Did you mean "search"?`, "--verbose"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderError() missing %q:\n%s", want, out)
		}
	}

	ae := issue.NewErrorContext().
		WithOperation("load manifest").
		WithResource("cats.toml").
		WithSuggestion("Check the file").
		Wrap(errors.New("bad token")).
		BuildError()
	out = renderError(ae, false, "notty")
	if !strings.Contains(out, "failed to load manifest: cats.toml: bad token") || !strings.Contains(out, "Check the file") {
		t.Errorf("renderError() = %s", out)
	}

	out = renderError(errors.New("plain failure"), true, "notty")
	if !strings.Contains(out, "plain failure") {
		t.Errorf("renderError() = %s", out)
	}
}

func TestIssueFor_ScriptFailure(t *testing.T) {
	t.Parallel()

	err := &engine.Error{
		Code:  engine.CodeActionFailed,
		Cause: &runtime.ScriptError{Command: "deploy", Code: 2},
	}
	if got := issueFor(err); got == nil || got.Id() != issue.ScriptExecutionFailedId {
		t.Errorf("issueFor() = %v, want %s", got, issue.ScriptExecutionFailedId)
	}
	if got := issueFor(&engine.Error{Code: engine.CodeArgRequired}); got == nil || got.Id() != issue.ArgRequiredId {
		t.Errorf("issueFor() = %v, want %s", got, issue.ArgRequiredId)
	}
}
