// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"

	"github.com/invowk/declcli/internal/issue"
	"github.com/invowk/declcli/internal/runtime"
	"github.com/invowk/declcli/pkg/engine"
)

// renderError formats err as a styled error card. In verbose mode the
// matching issue catalog entry is rendered below it as Markdown.
func renderError(err error, verbose bool, markdownStyle string) string {
	var sb strings.Builder

	var engErr *engine.Error
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &engErr):
		renderEngineError(&sb, engErr, verbose)
	case errors.As(err, &ae):
		sb.WriteString(ErrorStyle.Render("✗ "))
		sb.WriteString(ae.Format(verbose))
		sb.WriteString("\n")
	default:
		sb.WriteString(ErrorStyle.Render("✗ "))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	entry := issueFor(err)
	switch {
	case entry == nil:
	case verbose:
		if rendered, renderErr := entry.Render(markdownStyle); renderErr == nil {
			sb.WriteString(rendered)
		}
	default:
		sb.WriteString(renderHintStyle.Render("Run with --verbose for details on " + string(entry.Id()) + "."))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderEngineError(sb *strings.Builder, err *engine.Error, verbose bool) {
	sb.WriteString(renderHeaderStyle.Render("✗ " + string(err.Code)))
	sb.WriteString("\n")

	if err.Command != "" {
		sb.WriteString(renderLabelStyle.Render("Command: "))
		sb.WriteString(CmdStyle.Render(err.Command))
		sb.WriteString("\n")
	}
	sb.WriteString(renderLabelStyle.Render("Error:   "))
	sb.WriteString(renderValueStyle.Render(err.Message))
	sb.WriteString("\n")

	if ae := issue.ForInvocation(err); ae != nil && ae.HasSuggestions() {
		sb.WriteString(renderLabelStyle.Render("Try:"))
		sb.WriteString("\n")
		for _, s := range ae.Suggestions {
			sb.WriteString("  • ")
			sb.WriteString(renderValueStyle.Render(s))
			sb.WriteString("\n")
		}
	}

	if verbose && err.Cause != nil {
		sb.WriteString(renderLabelStyle.Render("Cause:   "))
		sb.WriteString(renderValueStyle.Render(err.Cause.Error()))
		sb.WriteString("\n")
	}
}

// issueFor is issue.ForError, except that failing script actions point at
// the script entry rather than the generic action failure.
func issueFor(err error) *issue.Issue {
	if errors.Is(err, runtime.ErrScriptFailed) {
		return issue.Get(issue.ScriptExecutionFailedId)
	}
	return issue.ForError(err)
}
