// SPDX-License-Identifier: MPL-2.0

package engine_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/declcli/pkg/builder"
	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/engine"
)

// noop is an action that does nothing.
func noop(context.Context, *decl.Invocation) error { return nil }

func mustParse(t *testing.T, b *builder.Builder, args ...string) *decl.Invocation {
	t.Helper()
	inv, err := b.Parse(context.Background(), args)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", args, err)
	}
	return inv
}

func parseErr(t *testing.T, b *builder.Builder, code engine.Code, args ...string) *engine.Error {
	t.Helper()
	_, err := b.Parse(context.Background(), args)
	if err == nil {
		t.Fatalf("Parse(%q) expected %s error, got nil", args, code)
	}
	var e *engine.Error
	if !errors.As(err, &e) {
		t.Fatalf("Parse(%q) error %T is not *engine.Error: %v", args, err, err)
	}
	if e.Code != code {
		t.Fatalf("Parse(%q) code = %s, want %s (%v)", args, e.Code, code, err)
	}
	return e
}

func scriptBuilder() *builder.Builder {
	b := builder.New()
	b.Command("script").Argument("[name]").Action(noop)
	b.Command("script new").Alias("sn").Argument("<name>").Action(noop)
	return b
}

func TestResolvePrefixGreedyAndAliases(t *testing.T) {
	t.Parallel()

	b := scriptBuilder()
	tests := []struct {
		args    []string
		command string
		rest    []string
	}{
		{[]string{"script", "new", "x"}, "script new", []string{"x"}},
		{[]string{"sn", "x"}, "script new", []string{"x"}},
		{[]string{"script", "x"}, "script", []string{"x"}},
		{[]string{"script"}, "script", []string{}},
	}
	eng := b.Engine()
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			cmd, rest, err := eng.Resolve(tt.args)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if cmd.Name != tt.command {
				t.Errorf("command = %q, want %q", cmd.Name, tt.command)
			}
			if !slices.Equal(rest, tt.rest) {
				t.Errorf("rest = %q, want %q", rest, tt.rest)
			}
		})
	}
}

func TestParseAliasBindsSameCommand(t *testing.T) {
	t.Parallel()

	b := scriptBuilder()
	viaName := mustParse(t, b, "script", "new", "x")
	viaAlias := mustParse(t, b, "sn", "x")
	if viaName.Command != "script new" || viaAlias.Command != "script new" {
		t.Fatalf("commands = %q, %q; want both %q", viaName.Command, viaAlias.Command, "script new")
	}
	if viaAlias.Args.String("name") != "x" {
		t.Errorf("name = %q, want %q", viaAlias.Args.String("name"), "x")
	}
}

func TestCommandNotFound(t *testing.T) {
	t.Parallel()

	b := builder.New()
	for _, name := range []string{"list", "search", "image"} {
		b.Command(name).Action(noop)
	}

	e := parseErr(t, b, engine.CodeCommandNotFound, "lsit")
	if e.Subject != "lsit" {
		t.Errorf("Subject = %q, want %q", e.Subject, "lsit")
	}
	if !slices.Equal(e.Suggestions, []string{"list"}) {
		t.Errorf("Suggestions = %q, want [list]", e.Suggestions)
	}
	if !errors.Is(e, engine.ErrCommandNotFound) {
		t.Error("errors.Is(err, ErrCommandNotFound) = false")
	}

	e = parseErr(t, b, engine.CodeCommandNotFound)
	if e.Message != "no command provided" {
		t.Errorf("Message = %q", e.Message)
	}
}

func TestTopLevelCommandConsumesAllTokens(t *testing.T) {
	t.Parallel()

	b := builder.New()
	b.Global().Argument("<file>").Option("-v, --verbose").Action(noop)

	inv := mustParse(t, b, "a.txt", "-v")
	if inv.Command != "" {
		t.Errorf("Command = %q, want top-level", inv.Command)
	}
	if got := inv.Args.String("file"); got != "a.txt" {
		t.Errorf("file = %q, want a.txt", got)
	}
	if !inv.Options.Bool("verbose") {
		t.Error("verbose = false, want true")
	}
}

func TestEngineBusy(t *testing.T) {
	t.Parallel()

	b := builder.New()
	var nested error
	b.Command("outer").Action(func(ctx context.Context, _ *decl.Invocation) error {
		_, nested = b.Parse(ctx, []string{"outer"})
		return nil
	})

	mustParse(t, b, "outer")
	if !errors.Is(nested, engine.ErrEngineBusy) {
		t.Fatalf("nested Parse error = %v, want ENGINE_BUSY", nested)
	}

	// The guard is released once the outer run returns.
	b2 := builder.New()
	b2.Command("outer").Action(noop)
	mustParse(t, b2, "outer")
	mustParse(t, b2, "outer")
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	b := builder.New()
	b.Command("run").Action(noop)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Parse(ctx, []string{"run"})
	if !errors.Is(err, engine.ErrCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Parse() error = %v, want CANCELED wrapping context.Canceled", err)
	}
}

func TestInvocationID(t *testing.T) {
	t.Parallel()

	b := builder.New(builder.WithEngineOptions(engine.WithIDGenerator(func() string { return "fixed-id" })))
	b.Command("run").Action(noop)
	if inv := mustParse(t, b, "run"); inv.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", inv.ID)
	}

	b2 := builder.New()
	b2.Command("run").Action(noop)
	first, second := mustParse(t, b2, "run"), mustParse(t, b2, "run")
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("IDs = %q, %q; want distinct non-empty", first.ID, second.ID)
	}
}

func TestErrorString(t *testing.T) {
	t.Parallel()

	e := &engine.Error{
		Code:        engine.CodeCommandNotFound,
		Message:     `unknown command "lsit"`,
		Suggestions: []string{"list"},
	}
	want := `COMMAND_NOT_FOUND: unknown command "lsit" (did you mean "list"?)`
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if code, ok := engine.CodeOf(e); !ok || code != engine.CodeCommandNotFound {
		t.Errorf("CodeOf() = %q, %v", code, ok)
	}
	if _, ok := engine.CodeOf(errors.New("plain")); ok {
		t.Error("CodeOf(plain) reported a code")
	}
}
