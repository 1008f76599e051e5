// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/engine"
	"github.com/invowk/declcli/pkg/manifest"
)

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		contains string
	}{
		{CommandNotFoundId, "Command not found"},
		{UnknownOptionId, "Unknown option"},
		{ArgRequiredId, "Missing required argument"},
		{OptionRequiredId, "Missing required option"},
		{OptionValueRequiredId, "Option value required"},
		{OptionValueUnexpectedId, "Unexpected option value"},
		{ArgsExceededId, "Too many arguments"},
		{OptionRepeatedId, "Option repeated"},
		{ValidationFailedId, "Validation failed"},
		{ActionFailedId, "Action failed"},
		{ManifestNotFoundId, "No manifest found"},
		{ManifestParseErrorId, "Failed to parse manifest"},
		{UnsupportedFormatId, "Unsupported manifest format"},
		{InvalidDeclarationId, "Invalid declaration"},
		{ConfigLoadFailedId, "Failed to load configuration"},
		{ScriptExecutionFailedId, "Script execution failed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			t.Parallel()
			iss := Get(tt.id)
			if iss == nil {
				t.Fatalf("Get(%s) returned nil", tt.id)
			}
			if iss.Id() != tt.id {
				t.Errorf("Id() = %s, want %s", iss.Id(), tt.id)
			}
			if !strings.Contains(string(iss.MarkdownMsg()), tt.contains) {
				t.Errorf("MarkdownMsg() should contain %q", tt.contains)
			}
			if len(iss.DocLinks()) == 0 {
				t.Error("every issue needs at least one doc link")
			}
		})
	}

	if Get(Id("NOPE")) != nil {
		t.Error("Get(unknown) should return nil")
	}
	if got := len(Values()); got != len(tests) {
		t.Errorf("Values() returned %d issues, want %d", got, len(tests))
	}
}

func TestValues_Sorted(t *testing.T) {
	t.Parallel()

	vals := Values()
	for i := 1; i < len(vals); i++ {
		if vals[i-1].Id() >= vals[i].Id() {
			t.Fatalf("Values() not sorted at %d: %s >= %s", i, vals[i-1].Id(), vals[i].Id())
		}
	}
}

func TestIssue_LinksAreCloned(t *testing.T) {
	t.Parallel()

	iss := Get(ScriptExecutionFailedId)
	links := iss.DocLinks()
	links[0] = "modified"
	if iss.DocLinks()[0] == "modified" {
		t.Error("DocLinks() should return a clone")
	}
	ext := iss.ExtLinks()
	ext[0] = "modified"
	if iss.ExtLinks()[0] == "modified" {
		t.Error("ExtLinks() should return a clone")
	}
}

//nolint:paralleltest // swaps the package-level renderer
func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()
	render = func(in string, _ string) (string, error) { return in, nil }

	withLinks := &Issue{
		id:       Id("TEST"),
		mdMsg:    "# Test Issue",
		docLinks: []HttpLink{"https://docs.example.com"},
		extLinks: []HttpLink{"https://external.example.com"},
	}
	rendered, err := withLinks.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	for _, want := range []string{"See also", "https://docs.example.com", "https://external.example.com"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Render() missing %q\n%s", want, rendered)
		}
	}

	noLinks := &Issue{id: Id("TEST2"), mdMsg: "# Test Issue"}
	rendered, err = noLinks.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}

	for _, iss := range Values() {
		out, err := iss.Render("")
		if err != nil || out == "" {
			t.Errorf("issue %s failed to render: %v", iss.Id(), err)
		}
	}
}

func TestForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Id
	}{
		{"nil", nil, ""},
		{"engine code", &engine.Error{Code: engine.CodeUnknownOption, Message: "unknown option --x"}, UnknownOptionId},
		{"wrapped engine code", fmt.Errorf("run: %w", &engine.Error{Code: engine.CodeValidationFailed}), ValidationFailedId},
		{"engine code without entry", &engine.Error{Code: engine.CodeEngineBusy}, ""},
		{"declaration", decl.NewDeclarationError(decl.CodeDuplicateCommand, "search", "duplicate"), InvalidDeclarationId},
		{"format", fmt.Errorf("%w: %q", manifest.ErrUnsupportedFormat, ".yaml"), UnsupportedFormatId},
		{"missing file", fmt.Errorf("manifest %q: %w", "cats", os.ErrNotExist), ManifestNotFoundId},
		{"actionable", NewErrorContext().WithOperation("load config").WithIssue(ConfigLoadFailedId).BuildError(), ConfigLoadFailedId},
		{"plain", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ForError(tt.err)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ForError() = %s, want nil", got.Id())
				}
				return
			}
			if got == nil || got.Id() != tt.want {
				t.Errorf("ForError() = %v, want %s", got, tt.want)
			}
		})
	}
}
