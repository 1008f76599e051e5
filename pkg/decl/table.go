// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"slices"
	"strings"

	"github.com/tidwall/btree"
)

// Table is the read-only declaration table handed to the engine and to help
// collaborators. Callers must not mutate the commands it returns.
type Table struct {
	version  string
	ordered  []*Command
	commands *btree.Map[string, *Command]
	aliases  *btree.Map[string, string]
	maxWords int
}

// NewTable indexes cmds by name and alias. Commands keep the order given.
func NewTable(version string, cmds []*Command) *Table {
	t := &Table{
		version:  version,
		ordered:  make([]*Command, 0, len(cmds)),
		commands: btree.NewMap[string, *Command](0),
		aliases:  btree.NewMap[string, string](0),
	}
	for _, cmd := range cmds {
		t.ordered = append(t.ordered, cmd)
		t.commands.Set(cmd.Name, cmd)
		t.trackWords(cmd.Name)
		for _, alias := range cmd.Aliases {
			t.aliases.Set(alias, cmd.Name)
			t.trackWords(alias)
		}
	}
	return t
}

func (t *Table) trackWords(name string) {
	if n := len(strings.Fields(name)); n > t.maxWords {
		t.maxWords = n
	}
}

// Version returns the version string declared by the application.
func (t *Table) Version() string { return t.version }

// Len returns the number of commands.
func (t *Table) Len() int { return len(t.ordered) }

// Commands returns the commands in registration order.
func (t *Table) Commands() []*Command {
	out := make([]*Command, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Sorted returns the commands ordered by name.
func (t *Table) Sorted() []*Command {
	return t.commands.Values()
}

// Lookup returns the command declared under name or alias.
func (t *Table) Lookup(name string) (*Command, bool) {
	if cmd, ok := t.commands.Get(name); ok {
		return cmd, true
	}
	if target, ok := t.aliases.Get(name); ok {
		return t.commands.Get(target)
	}
	return nil, false
}

// Names returns every command name and alias, sorted.
func (t *Table) Names() []string {
	names := t.commands.Keys()
	names = append(names, t.aliases.Keys()...)
	slices.Sort(names)
	return names
}

// MaxWords returns the word count of the longest command name or alias.
func (t *Table) MaxWords() int { return t.maxWords }

// TopLevel reports whether the table only holds the synthetic "" command.
func (t *Table) TopLevel() bool {
	return len(t.ordered) == 1 && t.ordered[0].Name == ""
}
