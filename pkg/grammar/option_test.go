// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/declcli/pkg/decl"
)

func TestParseOption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		syntax      string
		short       string
		long        string
		apiName     string
		argName     string
		argRequired bool
	}{
		{syntax: "-v", short: "v"},
		{syntax: "--verbose", long: "verbose", apiName: "verbose"},
		{syntax: "-v --verbose", short: "v", long: "verbose", apiName: "verbose"},
		{syntax: "--verbose -v", short: "v", long: "verbose", apiName: "verbose"},
		{syntax: "-v, --verbose", short: "v", long: "verbose", apiName: "verbose"},
		{syntax: "-b --bail <code>", short: "b", long: "bail", apiName: "bail", argName: "code", argRequired: true},
		{syntax: "--bail -b [code]", short: "b", long: "bail", apiName: "bail", argName: "code"},
		{syntax: "--dry-run", long: "dry-run", apiName: "dryRun"},
		{syntax: "-o <output-file>", short: "o", argName: "output-file", argRequired: true},
		{syntax: "--v2", long: "v2", apiName: "v2"},
		{syntax: "  --trim  ", long: "trim", apiName: "trim"},
	}

	for _, tt := range tests {
		t.Run(tt.syntax, func(t *testing.T) {
			t.Parallel()

			opt, err := ParseOption(tt.syntax)
			if err != nil {
				t.Fatalf("ParseOption(%q) error = %v", tt.syntax, err)
			}
			if opt.Short != tt.short || opt.Long != tt.long || opt.APIName != tt.apiName {
				t.Errorf("ParseOption(%q) = short %q long %q api %q, want %q %q %q",
					tt.syntax, opt.Short, opt.Long, opt.APIName, tt.short, tt.long, tt.apiName)
			}
			if tt.argName == "" {
				if opt.Argument != nil {
					t.Errorf("Argument = %+v, want nil", opt.Argument)
				}
				return
			}
			if opt.Argument == nil {
				t.Fatal("Argument = nil, want declaration")
			}
			if opt.Argument.Name != tt.argName || opt.Argument.Required != tt.argRequired {
				t.Errorf("Argument = %q required %v, want %q required %v",
					opt.Argument.Name, opt.Argument.Required, tt.argName, tt.argRequired)
			}
		})
	}
}

func TestParseOption_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"verbose",
		"<code>",
		"-",
		"--",
		"-vv",
		"-1",
		"--a",
		"--12",
		"--bad-",
		"---bad",
		"--ba--d",
		"--ba_d",
		"-b --bail --other",
		"-a -b",
		"--one --two",
		"<code> -b",
		"-b <code> --bail",
		"-b --bail <...codes>",
		"-b --bail <code",
		"-b --bail <co de>",
	}

	for _, syntax := range tests {
		t.Run(syntax, func(t *testing.T) {
			t.Parallel()

			_, err := ParseOption(syntax)
			var de *decl.DeclarationError
			if !errors.As(err, &de) {
				t.Fatalf("ParseOption(%q) error = %v, want *decl.DeclarationError", syntax, err)
			}
			if de.Code != decl.CodeInvalidOptionSyntax {
				t.Errorf("Code = %s, want %s", de.Code, decl.CodeInvalidOptionSyntax)
			}
			if de.Subject != syntax {
				t.Errorf("Subject = %q, want %q", de.Subject, syntax)
			}
			if !strings.Contains(err.Error(), `"`+syntax+`"`) {
				t.Errorf("error %q does not quote the syntax verbatim", err.Error())
			}
		})
	}
}

func TestCamelCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"name":         "name",
		"output-file":  "outputFile",
		"dry_run":      "dryRun",
		"DRY_RUN":      "dryRun",
		"my-long-name": "myLongName",
		"myArg":        "myArg",
		"v2":           "v2",
		"":             "",
	}
	for in, want := range tests {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}
