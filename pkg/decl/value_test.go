// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"testing"
)

func TestValueKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    Value
		kind     Kind
		provided bool
		str      string
	}{
		{"zero", Value{}, KindAbsent, false, "<absent>"},
		{"absent", Absent(), KindAbsent, false, "<absent>"},
		{"missing", Missing(), KindMissing, true, "<missing>"},
		{"flag", FlagValue(true), KindFlag, true, "true"},
		{"scalar", ScalarValue("x"), KindScalar, true, "x"},
		{"list", StringList("a", "b"), KindList, true, "[a b]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.value.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", tt.value.Kind(), tt.kind)
			}
			if tt.value.Provided() != tt.provided {
				t.Errorf("Provided() = %v, want %v", tt.value.Provided(), tt.provided)
			}
			if tt.value.String() != tt.str {
				t.Errorf("String() = %q, want %q", tt.value.String(), tt.str)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      any
		want    Value
		wantErr bool
	}{
		{"nil", nil, Missing(), false},
		{"string", "a", ScalarValue("a"), false},
		{"bool", true, ScalarValue(true), false},
		{"strings", []string{"a", "b"}, StringList("a", "b"), false},
		{"any slice", []any{"a", 1}, ListValue(ScalarValue("a"), ScalarValue(1)), false},
		{"int slice", []int{1, 2}, ListValue(ScalarValue(1), ScalarValue(2)), false},
		{"value", FlagValue(false), FlagValue(false), false},
		{"map", map[string]string{}, Value{}, true},
		{"nested map", []any{map[string]int{}}, Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FromAny(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromAny() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("FromAny() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValueAppendAndClone(t *testing.T) {
	t.Parallel()

	v := Absent().Append(ScalarValue("0")).Append(Missing())
	if !v.Equal(ListValue(ScalarValue("0"), Missing())) {
		t.Fatalf("Append() = %s", v)
	}

	cp := v.Clone()
	items := cp.Items()
	items[0] = ScalarValue("changed")
	if !v.Equal(cp) {
		t.Error("mutating Items() changed the clone")
	}

	if got := ScalarValue("a").Append(ScalarValue("b")); !got.Equal(StringList("a", "b")) {
		t.Errorf("scalar Append() = %s", got)
	}
}

func TestValueInterface(t *testing.T) {
	t.Parallel()

	if Missing().Interface() != nil || Absent().Interface() != nil {
		t.Error("missing/absent should convert to nil")
	}
	got, ok := StringList("a").Interface().([]any)
	if !ok || len(got) != 1 || got[0] != "a" {
		t.Errorf("list Interface() = %#v", got)
	}
	if b, ok := FlagValue(true).Bool(); !ok || !b {
		t.Error("FlagValue(true).Bool() failed")
	}
	if _, ok := ScalarValue("true").Bool(); ok {
		t.Error("string scalar reported as bool")
	}
}
