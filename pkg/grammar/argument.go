// SPDX-License-Identifier: MPL-2.0

package grammar

import (
	"regexp"

	"github.com/invowk/declcli/pkg/decl"
)

var (
	// argSyntaxRegex captures the opening bracket, the rest marker, the name and the closing bracket.
	argSyntaxRegex = regexp.MustCompile(`^([<\[])(\.\.\.)?([^<>\[\]\s]*)([>\]])$`)

	// A name is alphanumeric words joined by a single kind of separator.
	kebabNameRegex = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)
	snakeNameRegex = regexp.MustCompile(`^[A-Za-z0-9]+(_[A-Za-z0-9]+)*$`)
)

// ParseArgument parses an argument syntax string into a declaration.
func ParseArgument(syntax string) (decl.Argument, error) {
	m := argSyntaxRegex.FindStringSubmatch(syntax)
	if m == nil {
		return decl.Argument{}, decl.NewDeclarationError(decl.CodeInvalidArgumentSyntax, syntax,
			"invalid argument syntax %q (expected <name>, [name], <...name> or [...name])", syntax)
	}
	open, rest, name, closing := m[1], m[2], m[3], m[4]
	if (open == "<") != (closing == ">") {
		return decl.Argument{}, decl.NewDeclarationError(decl.CodeInvalidArgumentSyntax, syntax,
			"invalid argument syntax %q (mismatched brackets)", syntax)
	}
	if !ValidArgumentName(name) {
		return decl.Argument{}, decl.NewDeclarationError(decl.CodeInvalidArgumentName, name,
			"invalid argument name %q in %q (use letters and digits joined by single '-' or '_')", name, syntax)
	}
	return decl.Argument{
		Name:     name,
		APIName:  CamelCase(name),
		Required: open == "<",
		Rest:     rest != "",
	}, nil
}

// ValidArgumentName reports whether name is made of letters and digits joined
// by single separators of one kind, without leading or trailing separators.
func ValidArgumentName(name string) bool {
	return kebabNameRegex.MatchString(name) || snakeNameRegex.MatchString(name)
}
