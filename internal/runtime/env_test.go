// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"reflect"
	"testing"

	"github.com/invowk/declcli/pkg/decl"
)

func TestEnvName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"query":     "QUERY",
		"maxCount":  "MAX_COUNT",
		"dryRunNow": "DRY_RUN_NOW",
		"v":         "V",
		"file2":     "FILE2",
	}
	for in, want := range tests {
		if got := EnvName(in); got != want {
			t.Errorf("EnvName(%q) = %q, want %q", in, got, want)
		}
	}
}

func newInvocation() *decl.Invocation {
	inv := decl.NewInvocation("0190-test")
	inv.Command = "search"
	inv.Args.Set("query", decl.StringList("maine", "coon"))
	inv.Args.Set("breed", decl.Absent())
	inv.Options.Set("limit", decl.ScalarValue(float64(10)))
	inv.Options.Set("verbose", decl.FlagValue(true))
	inv.Options.Set("color", decl.Missing())
	inv.Options.Set("bail", decl.ListValue(decl.ScalarValue("0"), decl.Missing()))
	return inv
}

func TestInvocationEnv(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		EnvCommand:                "search",
		EnvInvocationID:           "0190-test",
		"DECLCLI_ARG_QUERY":       "maine coon",
		"DECLCLI_ARG_QUERY_COUNT": "2",
		"DECLCLI_ARG_QUERY_1":     "maine",
		"DECLCLI_ARG_QUERY_2":     "coon",
		"DECLCLI_OPT_LIMIT":       "10",
		"DECLCLI_OPT_VERBOSE":     "true",
		"DECLCLI_OPT_COLOR":       "",
		"DECLCLI_OPT_BAIL":        "0 ",
		"DECLCLI_OPT_BAIL_COUNT":  "2",
		"DECLCLI_OPT_BAIL_1":      "0",
		"DECLCLI_OPT_BAIL_2":      "",
	}
	if got := InvocationEnv(newInvocation()); !reflect.DeepEqual(got, want) {
		t.Errorf("InvocationEnv() =\n%v\nwant\n%v", got, want)
	}
}

func TestPositionalArgs(t *testing.T) {
	t.Parallel()

	inv := decl.NewInvocation("id")
	inv.Args.Set("source", decl.ScalarValue("a.txt"))
	inv.Args.Set("rest", decl.StringList("-v", "b"))
	inv.Args.Set("missing", decl.Absent())

	want := []string{"a.txt", "-v", "b"}
	if got := PositionalArgs(inv); !reflect.DeepEqual(got, want) {
		t.Errorf("PositionalArgs() = %v, want %v", got, want)
	}
}

func TestFilterEnv(t *testing.T) {
	t.Parallel()

	in := []string{
		"PATH=/bin",
		"DECLCLI_ARG_QUERY=x",
		"DECLCLI_OPT_LIMIT=1",
		"DECLCLI_COMMAND=search",
		"DECLCLI_INVOCATION_ID=1",
		"DECLCLI_LOG_LEVEL=debug",
		"MALFORMED",
	}
	want := []string{"PATH=/bin", "DECLCLI_LOG_LEVEL=debug", "MALFORMED"}
	if got := FilterEnv(in); !reflect.DeepEqual(got, want) {
		t.Errorf("FilterEnv() = %v, want %v", got, want)
	}
}

func TestEnvToSlice(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"B": "2", "A": "1", "C": ""})
	want := []string{"A=1", "B=2", "C="}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EnvToSlice() = %v, want %v", got, want)
	}
}
