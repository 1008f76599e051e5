// SPDX-License-Identifier: MPL-2.0

package manifest

import "fmt"

type (
	// Manifest is the decoded declaration document.
	Manifest struct {
		Name     string    `json:"name,omitempty" toml:"name,omitempty"`
		Version  string    `json:"version,omitempty" toml:"version,omitempty"`
		Global   *Scope    `json:"global,omitempty" toml:"global,omitempty"`
		Commands []Command `json:"commands,omitempty" toml:"commands,omitempty"`
	}

	// Scope groups the declarations shared by the global section and commands.
	Scope struct {
		Arguments []Argument `json:"arguments,omitempty" toml:"arguments,omitempty"`
		Options   []Option   `json:"options,omitempty" toml:"options,omitempty"`
		Actions   []Action   `json:"actions,omitempty" toml:"actions,omitempty"`
		// Events maps lifecycle event names (e.g. "actions:after") to handlers.
		Events map[string][]Action `json:"events,omitempty" toml:"events,omitempty"`
	}

	// Command declares one command.
	Command struct {
		Name        string              `json:"name" toml:"name"`
		Description string              `json:"description,omitempty" toml:"description,omitempty"`
		Aliases     []string            `json:"aliases,omitempty" toml:"aliases,omitempty"`
		Arguments   []Argument          `json:"arguments,omitempty" toml:"arguments,omitempty"`
		Options     []Option            `json:"options,omitempty" toml:"options,omitempty"`
		Actions     []Action            `json:"actions,omitempty" toml:"actions,omitempty"`
		Events      map[string][]Action `json:"events,omitempty" toml:"events,omitempty"`
	}

	// Argument declares a positional argument by syntax, e.g. "<...query>".
	Argument struct {
		Syntax      string         `json:"syntax" toml:"syntax"`
		Description string         `json:"description,omitempty" toml:"description,omitempty"`
		Validators  []ValidatorRef `json:"validators,omitempty" toml:"validators,omitempty"`
		// Default is a scalar or a list; nil means no default.
		Default any `json:"default,omitempty" toml:"default,omitempty"`
	}

	// Option declares an option by syntax, e.g. "-b, --bail <code>".
	Option struct {
		Syntax      string         `json:"syntax" toml:"syntax"`
		Description string         `json:"description,omitempty" toml:"description,omitempty"`
		Required    bool           `json:"required,omitempty" toml:"required,omitempty"`
		Multi       bool           `json:"multi,omitempty" toml:"multi,omitempty"`
		Immediate   bool           `json:"immediate,omitempty" toml:"immediate,omitempty"`
		Validators  []ValidatorRef `json:"validators,omitempty" toml:"validators,omitempty"`
		Default     any            `json:"default,omitempty" toml:"default,omitempty"`
	}

	// ValidatorRef names a validator. Exactly one field must be set.
	ValidatorRef struct {
		// Builtin is a validator name known to the builder's provider, e.g. "NUMBER".
		Builtin string `json:"builtin,omitempty" toml:"builtin,omitempty" hcl:"builtin,optional"`
		// Pattern is a regular expression every value must match.
		Pattern string `json:"pattern,omitempty" toml:"pattern,omitempty" hcl:"pattern,optional"`
		// Script is a JavaScript function body.
		Script string `json:"script,omitempty" toml:"script,omitempty" hcl:"script,optional"`
	}

	// Action is a script run as an action or event handler.
	Action struct {
		Script string `json:"script" toml:"script"`
		// Dir is the working directory, relative to the manifest's directory.
		Dir string `json:"dir,omitempty" toml:"dir,omitempty"`
	}
)

// Scope returns the command's declarations as a Scope.
func (c *Command) Scope() Scope {
	return Scope{
		Arguments: c.Arguments,
		Options:   c.Options,
		Actions:   c.Actions,
		Events:    c.Events,
	}
}

// CommandNames returns the declared command names in order.
func (m *Manifest) CommandNames() []string {
	names := make([]string, 0, len(m.Commands))
	for i := range m.Commands {
		names = append(names, m.Commands[i].Name)
	}
	return names
}

// count returns how many of the reference's fields are set.
func (r ValidatorRef) count() int {
	n := 0
	for _, v := range []string{r.Builtin, r.Pattern, r.Script} {
		if v != "" {
			n++
		}
	}
	return n
}

// String renders a short summary for logs.
func (m *Manifest) String() string {
	return fmt.Sprintf("manifest %q (%d commands)", m.Name, len(m.Commands))
}
