// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/validate"
)

func noop(context.Context, *decl.Invocation) error { return nil }

// expectDeclError runs fn and requires it to panic with a declaration error of code.
func expectDeclError(t *testing.T, code decl.Code, fn func()) *decl.DeclarationError {
	t.Helper()
	err := Catch(fn)
	if err == nil {
		t.Fatalf("expected %s, got no error", code)
	}
	var de *decl.DeclarationError
	if !errors.As(err, &de) {
		t.Fatalf("error %T is not a declaration error: %v", err, err)
	}
	if de.Code != code {
		t.Fatalf("code = %s, want %s (%v)", de.Code, code, err)
	}
	return de
}

func optionKeys(cmd *decl.Command) []string {
	keys := make([]string, 0, len(cmd.Options))
	for i := range cmd.Options {
		keys = append(keys, cmd.Options[i].Key())
	}
	return keys
}

func argumentNames(cmd *decl.Command) []string {
	names := make([]string, 0, len(cmd.Arguments))
	for i := range cmd.Arguments {
		names = append(names, cmd.Arguments[i].Name)
	}
	return names
}

func lookup(t *testing.T, table *decl.Table, name string) *decl.Command {
	t.Helper()
	cmd, ok := table.Lookup(name)
	if !ok {
		t.Fatalf("command %q not in table", name)
	}
	return cmd
}

func TestGlobalDeclarationsBeforeCommandsArePrepended(t *testing.T) {
	t.Parallel()

	b := New()
	b.Global().Argument("<target>").Option("-v, --verbose").Option("--trace")
	b.Command("build").Argument("[mode]").Option("--fast")
	b.Command("test").Option("--race")

	if b.IsGlobal() {
		t.Fatal("Command did not turn global mode off")
	}

	table := b.Table()
	build := lookup(t, table, "build")
	if got, want := argumentNames(build), []string{"target", "mode"}; !slices.Equal(got, want) {
		t.Errorf("build arguments = %q, want %q", got, want)
	}
	if got, want := optionKeys(build), []string{"verbose", "trace", "fast"}; !slices.Equal(got, want) {
		t.Errorf("build options = %q, want %q", got, want)
	}
	if got, want := optionKeys(lookup(t, table, "test")), []string{"verbose", "trace", "race"}; !slices.Equal(got, want) {
		t.Errorf("test options = %q, want %q", got, want)
	}
}

func TestGlobalDeclarationsAfterCommandsAreAppended(t *testing.T) {
	t.Parallel()

	b := New()
	b.Command("a").Option("--x")
	b.Command("b").Option("--y")
	b.Global().Option("-q, --quiet")
	b.Command("c").Option("--z")

	table := b.Table()
	tests := map[string][]string{
		"a": {"x", "quiet"},
		"b": {"y", "quiet"},
		"c": {"quiet", "z"},
	}
	for name, want := range tests {
		if got := optionKeys(lookup(t, table, name)); !slices.Equal(got, want) {
			t.Errorf("%s options = %q, want %q", name, got, want)
		}
	}
}

func TestGlobalActionsInterleave(t *testing.T) {
	t.Parallel()

	var calls []string
	record := func(name string) decl.Handler {
		return func(context.Context, *decl.Invocation) error {
			calls = append(calls, name)
			return nil
		}
	}

	b := New()
	b.Global().Action(record("global first"))
	b.Command("run").Action(record("run"))
	b.Global().Action(record("global last"))

	if _, err := b.Parse(context.Background(), []string{"run"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if want := []string{"global first", "run", "global last"}; !slices.Equal(calls, want) {
		t.Errorf("calls = %q, want %q", calls, want)
	}
}

func TestGlobalCollisionLeavesScopesUntouched(t *testing.T) {
	t.Parallel()

	b := New()
	b.Command("a").Option("--keep")
	b.Command("b").Option("--x")

	expectDeclError(t, decl.CodeDuplicateOption, func() {
		b.Global().Option("--x")
	})

	table := b.Table()
	if got := optionKeys(lookup(t, table, "a")); !slices.Equal(got, []string{"keep"}) {
		t.Errorf("a options = %q, want [keep]", got)
	}
}

func TestCommandDeclarationsAreIsolated(t *testing.T) {
	t.Parallel()

	b := New()
	b.Global().Option("--shared <v>", Default("one"))
	b.Command("a")
	b.Command("b")

	table := b.Table()
	a := lookup(t, table, "a")
	a.Options[0].Default = decl.ScalarValue("changed")
	if got := lookup(t, table, "b").Options[0].Default; !got.Equal(decl.ScalarValue("one")) {
		t.Errorf("b default = %s, want one", got)
	}
	if got := lookup(t, b.Table(), "a").Options[0].Default; !got.Equal(decl.ScalarValue("one")) {
		t.Errorf("fresh table default = %s, want one", got)
	}
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code decl.Code
		fn   func(b *Builder)
	}{
		{"empty name", decl.CodeInvalidCommandName, func(b *Builder) { b.Command("") }},
		{"dash", decl.CodeInvalidCommandName, func(b *Builder) { b.Command("bad-name") }},
		{"double space", decl.CodeInvalidCommandName, func(b *Builder) { b.Command("a  b") }},
		{"duplicate", decl.CodeDuplicateCommand, func(b *Builder) { b.Command("a").Command("a") }},
		{"name taken by alias", decl.CodeDuplicateCommand, func(b *Builder) { b.Command("a").Alias("x").Command("x") }},
		{"alias without command", decl.CodeNoActiveCommand, func(b *Builder) { b.Alias("x") }},
		{"alias in global mode", decl.CodeAliasInGlobalMode, func(b *Builder) { b.Command("a").Global().Alias("x") }},
		{"alias equals command", decl.CodeInvalidAlias, func(b *Builder) { b.Command("a").Command("b").Alias("a") }},
		{"alias invalid", decl.CodeInvalidAlias, func(b *Builder) { b.Command("a").Alias("s-n") }},
		{"alias duplicate", decl.CodeDuplicateAlias, func(b *Builder) { b.Command("a").Alias("x").Command("b").Alias("x") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectDeclError(t, tt.code, func() { tt.fn(New()) })
		})
	}
}

func TestArgumentErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code decl.Code
		fn   func(b *Builder)
	}{
		{"no active command", decl.CodeNoActiveCommand, func(b *Builder) { b.Argument("<a>") }},
		{"bad syntax", decl.CodeInvalidArgumentSyntax, func(b *Builder) { b.Command("c").Argument("a") }},
		{"bad name", decl.CodeInvalidArgumentName, func(b *Builder) { b.Command("c").Argument("<bad--name>") }},
		{"duplicate", decl.CodeDuplicateArgument, func(b *Builder) { b.Command("c").Argument("<a>").Argument("[a]") }},
		{"duplicate api name", decl.CodeDuplicateArgument, func(b *Builder) { b.Command("c").Argument("<a-b>").Argument("[a_b]") }},
		{"rest not last", decl.CodeRestNotLast, func(b *Builder) { b.Command("c").Argument("[...r]").Argument("[x]") }},
		{"required after optional", decl.CodeRequiredAfterOptional, func(b *Builder) { b.Command("c").Argument("[a]").Argument("<b>") }},
		{"required with default", decl.CodeRequiredWithDefault, func(b *Builder) { b.Command("c").Argument("<a>", Default("x")) }},
		{"option attribute", decl.CodeInvalidAttribute, func(b *Builder) { b.Command("c").Argument("[a]", Multi()) }},
		{"map default", decl.CodeInvalidDefault, func(b *Builder) { b.Command("c").Argument("[a]", Default(map[string]int{})) }},
		{"list default on scalar", decl.CodeInvalidDefault, func(b *Builder) { b.Command("c").Argument("[a]", Default([]string{"x"})) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectDeclError(t, tt.code, func() { tt.fn(New()) })
		})
	}
}

func TestOptionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code decl.Code
		fn   func(b *Builder)
	}{
		{"no active command", decl.CodeNoActiveCommand, func(b *Builder) { b.Option("-v") }},
		{"bad syntax", decl.CodeInvalidOptionSyntax, func(b *Builder) { b.Command("c").Option("---v") }},
		{"duplicate short", decl.CodeDuplicateOption, func(b *Builder) { b.Command("c").Option("-v").Option("-v, --verbose") }},
		{"duplicate long", decl.CodeDuplicateOption, func(b *Builder) { b.Command("c").Option("--out <d>").Option("-o, --out") }},
		{"required with default", decl.CodeRequiredWithDefault, func(b *Builder) { b.Command("c").Option("--a <x>", Required(), Default("y")) }},
		{"flag with string default", decl.CodeInvalidDefault, func(b *Builder) { b.Command("c").Option("--force", Default("yes")) }},
		{"list default on single option", decl.CodeInvalidDefault, func(b *Builder) { b.Command("c").Option("--tag <t>", Default([]string{"a"})) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expectDeclError(t, tt.code, func() { tt.fn(New()) })
		})
	}
}

func TestHandlerErrors(t *testing.T) {
	t.Parallel()

	expectDeclError(t, decl.CodeNoActiveCommand, func() { New().Action(noop) })
	expectDeclError(t, decl.CodeNilHandler, func() { New().Command("c").Action(nil) })
	expectDeclError(t, decl.CodeInvalidEvent, func() { New().Command("c").On("parse:before", noop) })
	expectDeclError(t, decl.CodeNilHandler, func() { New().Command("c").On(decl.EventActionsAfter, nil) })
}

func TestOptionDefaultsNormalized(t *testing.T) {
	t.Parallel()

	b := New()
	b.Command("c").
		Option("--force", Default(true)).
		Option("--tag <t>", Multi(), Default("latest")).
		Option("--level <n>", Default(3))

	cmd := lookup(t, b.Table(), "c")
	force, _ := cmd.LongOption("force")
	if !force.Default.Equal(decl.FlagValue(true)) {
		t.Errorf("force default = %s, want flag true", force.Default)
	}
	tag, _ := cmd.LongOption("tag")
	if !tag.Default.Equal(decl.StringList("latest")) {
		t.Errorf("tag default = %s, want [latest]", tag.Default)
	}
	level, _ := cmd.LongOption("level")
	if !level.Default.Equal(decl.ScalarValue(3)) {
		t.Errorf("level default = %s, want 3", level.Default)
	}
}

func TestDeclarationAttributes(t *testing.T) {
	t.Parallel()

	b := New()
	b.Command("serve", "Start", "the server").
		Alias("s").
		Argument("[port]", Describe("Port to bind"), Validators(validate.Number)).
		Option("-h, --help", Immediate(), Describe("Show help"))

	cmd := lookup(t, b.Table(), "s")
	if cmd.Name != "serve" || cmd.Description != "Start the server" {
		t.Errorf("command = %q (%q)", cmd.Name, cmd.Description)
	}
	port, ok := cmd.Argument("port")
	if !ok || port.Description != "Port to bind" || len(port.Validators) != 1 {
		t.Errorf("port argument = %+v", port)
	}
	help, ok := cmd.ShortOption("h")
	if !ok || !help.Immediate || help.Description != "Show help" {
		t.Errorf("help option = %+v", help)
	}
	if name, ok := b.Current(); !ok || name != "serve" {
		t.Errorf("Current() = %q, %v", name, ok)
	}
}

func TestTableVersionAndOrder(t *testing.T) {
	t.Parallel()

	b := New().Version("1.2.3")
	b.Command("zeta").Command("alpha")

	table := b.Table()
	if table.Version() != "1.2.3" {
		t.Errorf("Version() = %q", table.Version())
	}
	cmds := table.Commands()
	if cmds[0].Name != "zeta" || cmds[0].Order != 0 || cmds[1].Order != 1 {
		t.Errorf("registration order lost: %q/%d, %q/%d", cmds[0].Name, cmds[0].Order, cmds[1].Name, cmds[1].Order)
	}
	if sorted := table.Sorted(); sorted[0].Name != "alpha" {
		t.Errorf("Sorted()[0] = %q, want alpha", sorted[0].Name)
	}
}

func TestEngineRebuiltAfterChanges(t *testing.T) {
	t.Parallel()

	b := New()
	b.Command("a")
	first := b.Engine()
	if b.Engine() != first {
		t.Error("Engine() rebuilt without changes")
	}
	b.Command("b")
	if b.Engine() == first {
		t.Error("Engine() not rebuilt after declaring a command")
	}
	if _, ok := b.Engine().Table().Lookup("b"); !ok {
		t.Error("rebuilt engine misses command b")
	}
}

func TestValidatorLookup(t *testing.T) {
	t.Parallel()

	b := New()
	if b.Validator(validate.NameNumber) == nil {
		t.Fatal("NUMBER validator is nil")
	}
	de := expectDeclError(t, decl.CodeUnknownValidator, func() { b.Validator("NOPE") })
	if de.Subject != "NOPE" {
		t.Errorf("Subject = %q", de.Subject)
	}

	custom := validate.Builtins().With("EVEN", decl.MatchPattern(`^[02468]+$`))
	b = New(WithValidatorProvider(custom))
	if _, ok := b.Validators().Lookup("EVEN"); !ok {
		t.Error("custom provider not used")
	}
}

func TestCatchRepanicsForeignValues(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	_ = Catch(func() { panic("boom") })
	t.Error("Catch swallowed a foreign panic")
}
