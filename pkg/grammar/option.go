// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"regexp"
	"strings"

	"github.com/invowk/declcli/pkg/decl"
)

var (
	// optionArgRegex finds the trailing argument token of an option syntax.
	optionArgRegex = regexp.MustCompile(`(?:^|\s)([<\[][^\s]*)$`)

	// shortRegex and longRegex recognize flags anywhere in the syntax.
	shortRegex = regexp.MustCompile(`(?:^|[\s,])-([^-\s,][^\s,]*)`)
	longRegex  = regexp.MustCompile(`(?:^|[\s,])--([^\s,]*)`)

	// The flag part must be exactly one of the accepted orderings.
	shortFirstRegex = regexp.MustCompile(`^-([^-\s,]+)(?:,?\s+--([^\s,]+))?$`)
	longFirstRegex  = regexp.MustCompile(`^--([^\s,]+)(?:,?\s+-([^-\s,]+))?$`)

	shortNameRegex = regexp.MustCompile(`^[A-Za-z]$`)
	digitsRegex    = regexp.MustCompile(`^[0-9]+$`)
)

// ParseOption parses an option syntax string such as "-b, --bail <code>" into a declaration.
func ParseOption(syntax string) (decl.Option, error) {
	invalid := func(reason string) (decl.Option, error) {
		return decl.Option{}, decl.NewDeclarationError(decl.CodeInvalidOptionSyntax, syntax,
			"invalid option syntax %q: %s", syntax, reason)
	}

	flags := strings.TrimSpace(syntax)
	var opt decl.Option

	if m := optionArgRegex.FindStringSubmatchIndex(flags); m != nil {
		token := flags[m[2]:m[3]]
		arg, err := ParseArgument(token)
		if err != nil {
			return invalid("bad argument " + token)
		}
		if arg.Rest {
			return invalid("rest arguments are not allowed in options")
		}
		opt.Argument = &arg
		flags = strings.TrimSpace(flags[:m[2]])
	}
	if strings.ContainsAny(flags, "<>[]") {
		return invalid("the argument must come last")
	}

	if !shortRegex.MatchString(flags) && !longRegex.MatchString(flags) {
		return invalid("at least one of -short or --long is required")
	}

	var short, long string
	if m := shortFirstRegex.FindStringSubmatch(flags); m != nil {
		short, long = m[1], m[2]
	} else if m := longFirstRegex.FindStringSubmatch(flags); m != nil {
		long, short = m[1], m[2]
	} else {
		return invalid("expected -x, --name, \"-x --name\" or \"--name -x\"")
	}

	if short != "" && !shortNameRegex.MatchString(short) {
		return invalid("short name must be a single letter")
	}
	if long != "" && !validLongName(long) {
		return invalid("long name must be at least two letters or digits joined by single hyphens")
	}

	opt.Short = short
	opt.Long = long
	if long != "" {
		opt.APIName = CamelCase(long)
	}
	return opt, nil
}

func validLongName(name string) bool {
	return len(name) >= 2 && kebabNameRegex.MatchString(name) && !digitsRegex.MatchString(name)
}
