// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/invowk/declcli/pkg/decl"
)

const (
	// maxSuggestionDistance is the largest edit distance offered as "did you mean".
	maxSuggestionDistance = 2
	maxSuggestions        = 3
)

// Resolve finds the command named by the longest leading run of tokens,
// matching names and aliases alike, and returns it with the remaining tokens.
func (e *Engine) Resolve(args []string) (*decl.Command, []string, error) {
	return resolve(e.table, args)
}

func resolve(table *decl.Table, args []string) (*decl.Command, []string, error) {
	if table.TopLevel() {
		cmd, _ := table.Lookup("")
		return cmd, args, nil
	}
	if len(args) == 0 {
		return nil, nil, newError(CodeCommandNotFound, "", "", "no command provided")
	}

	for n := min(table.MaxWords(), len(args)); n >= 1; n-- {
		if cmd, ok := table.Lookup(strings.Join(args[:n], " ")); ok {
			return cmd, args[n:], nil
		}
	}

	err := newError(CodeCommandNotFound, "", args[0], "unknown command %q", args[0])
	err.Suggestions = suggest(table, args)
	return nil, nil, err
}

// suggest ranks declared names by edit distance to the leading tokens.
func suggest(table *decl.Table, args []string) []string {
	type candidate struct {
		name string
		dist int
	}
	var found []candidate
	for _, name := range table.Names() {
		words := min(len(strings.Fields(name)), len(args))
		typed := strings.Join(args[:words], " ")
		if d := levenshtein.Distance(typed, name, nil); d <= maxSuggestionDistance {
			found = append(found, candidate{name: name, dist: d})
		}
	}
	slices.SortStableFunc(found, func(a, b candidate) int {
		return cmp.Compare(a.dist, b.dist)
	})
	out := make([]string, 0, min(len(found), maxSuggestions))
	for _, c := range found[:min(len(found), maxSuggestions)] {
		out = append(out, c.name)
	}
	return out
}
