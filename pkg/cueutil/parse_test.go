// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string & =~"^[a-z]+$"
	count:  int & >=0
	items?: [...string]
}
`

type testDoc struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Items []string `json:"items,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`
name: "demo"
count: 2
items: ["a", "b"]
`)
	res, err := ParseAndDecode[testDoc]([]byte(testSchema), data, "#Doc", WithFilename("doc.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error: %v", err)
	}
	if res.Value.Name != "demo" || res.Value.Count != 2 || len(res.Value.Items) != 2 {
		t.Errorf("decoded %+v", res.Value)
	}
	if !res.Unified.Exists() {
		t.Error("Unified value missing")
	}
}

func TestParseAndDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		opts     []Option
		contains string
	}{
		{"syntax", `name: "x`, nil, "doc.cue"},
		{"constraint", "name: \"Bad\"\ncount: 1", nil, "name"},
		{"negative count", "name: \"ok\"\ncount: -1", nil, "count"},
		{"unknown field", "name: \"ok\"\ncount: 1\nextra: true", nil, "extra"},
		{"incomplete", `name: "ok"`, nil, "count"},
		{"too large", "name: \"ok\"\ncount: 1", []Option{WithMaxFileSize(4)}, "exceeds maximum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := append([]Option{WithFilename("doc.cue")}, tt.opts...)
			_, err := ParseAndDecode[testDoc]([]byte(testSchema), []byte(tt.data), "#Doc", opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not mention %q", err, tt.contains)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) != nil")
	}
	plain := errors.New("boom")
	err := FormatError(plain, "x.cue")
	if !errors.Is(err, plain) || !strings.HasPrefix(err.Error(), "x.cue: ") {
		t.Errorf("FormatError(plain) = %v", err)
	}

	ve := &ValidationError{FilePath: "x.cue", CUEPath: "a[0]", Message: "bad"}
	if ve.Error() != "x.cue: a[0]: bad" {
		t.Errorf("Error() = %q", ve.Error())
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"":                        nil,
		"name":                    {"name"},
		"commands[0].name":        {"commands", "0", "name"},
		"commands[1].options[2]":  {"commands", "1", "options", "2"},
		"global.options.required": {"global", "options", "required"},
	}
	for want, path := range tests {
		if got := formatPath(path); got != want {
			t.Errorf("formatPath(%q) = %q, want %q", path, got, want)
		}
	}
}
