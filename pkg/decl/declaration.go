// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"context"
	"slices"
	"strings"
)

const (
	// EventValidatorsBefore fires before any validator runs.
	EventValidatorsBefore Event = "validators:before"
	// EventValidatorsAfter fires after every validator ran.
	EventValidatorsAfter Event = "validators:after"
	// EventDefaultsBefore fires before defaults are applied.
	EventDefaultsBefore Event = "defaults:before"
	// EventDefaultsAfter fires after defaults are applied.
	EventDefaultsAfter Event = "defaults:after"
	// EventActionsBefore fires before the first action handler.
	EventActionsBefore Event = "actions:before"
	// EventActionsAfter fires after the action handlers, even when one suspended.
	EventActionsAfter Event = "actions:after"
)

type (
	// Event names a lifecycle phase handlers can subscribe to.
	Event string

	// Handler is an action or lifecycle event handler.
	// Returning an error aborts the invocation with that error surfaced to the user.
	Handler func(ctx context.Context, inv *Invocation) error

	// Argument declares a positional argument.
	Argument struct {
		// Name is the identifier from the syntax string (e.g. "output-file").
		Name string
		// APIName is the camelCase key of the bound value (e.g. "outputFile").
		APIName string
		// Description is help text for collaborators that render usage.
		Description string
		// Required is true for the <name> form and false for [name].
		Required bool
		// Rest collects every remaining positional token into a list.
		Rest bool
		// Validators run in order against the bound value.
		Validators []Validator
		// Default is used when the argument is optional and absent.
		Default Value
	}

	// Option declares a short and/or long option, optionally taking an argument.
	Option struct {
		// Short is the single-letter name without its dash, or "".
		Short string
		// Long is the kebab-case name without its dashes, or "".
		Long string
		// APIName is the camelCase form of Long, or "" when there is no long name.
		APIName string
		// Description is help text for collaborators that render usage.
		Description string
		// Required means the option itself must appear.
		Required bool
		// Multi accumulates one list entry per occurrence.
		Multi bool
		// Immediate short-circuits binding, defaults and validation.
		Immediate bool
		// Argument is the nested value declaration, nil for boolean flags.
		Argument *Argument
		// Validators run in order against the bound value.
		Validators []Validator
		// Default is used when the option is absent.
		Default Value
	}

	// Command declares a command with its arguments, options and handlers.
	Command struct {
		// Name is one or more space-separated words; "" is the synthetic top-level command.
		Name        string
		Description string
		Aliases     []string
		Arguments   []Argument
		Options     []Option
		Actions     []Handler
		// Order is the registration index.
		Order  int
		Events map[Event][]Handler
	}
)

// Events returns every lifecycle event in execution order.
func Events() []Event {
	return []Event{
		EventDefaultsBefore, EventDefaultsAfter,
		EventValidatorsBefore, EventValidatorsAfter,
		EventActionsBefore, EventActionsAfter,
	}
}

// Valid reports whether e names one of the lifecycle phases.
func (e Event) Valid() bool {
	return slices.Contains(Events(), e)
}

// String returns the event name.
func (e Event) String() string { return string(e) }

// Syntax renders the argument in its declaration form, e.g. "<name>" or "[...files]".
func (a *Argument) Syntax() string {
	var sb strings.Builder
	if a.Required {
		sb.WriteByte('<')
	} else {
		sb.WriteByte('[')
	}
	if a.Rest {
		sb.WriteString("...")
	}
	sb.WriteString(a.Name)
	if a.Required {
		sb.WriteByte('>')
	} else {
		sb.WriteByte(']')
	}
	return sb.String()
}

// Clone returns a deep copy of the argument.
func (a *Argument) Clone() Argument {
	cp := *a
	cp.Validators = slices.Clone(a.Validators)
	cp.Default = a.Default.Clone()
	return cp
}

// Key returns the name the bound value is stored under: APIName when the option
// has a long name, otherwise the short letter.
func (o *Option) Key() string {
	if o.APIName != "" {
		return o.APIName
	}
	return o.Short
}

// Display returns the preferred spelling for messages: "--long" or "-s".
func (o *Option) Display() string {
	if o.Long != "" {
		return "--" + o.Long
	}
	return "-" + o.Short
}

// TakesValue reports whether the option declares an argument.
func (o *Option) TakesValue() bool { return o.Argument != nil }

// Syntax renders the option in its declaration form, e.g. "-b, --bail <code>".
func (o *Option) Syntax() string {
	var parts []string
	if o.Short != "" {
		parts = append(parts, "-"+o.Short)
	}
	if o.Long != "" {
		parts = append(parts, "--"+o.Long)
	}
	s := strings.Join(parts, ", ")
	if o.Argument != nil {
		s += " " + o.Argument.Syntax()
	}
	return s
}

// Clone returns a deep copy of the option.
func (o *Option) Clone() Option {
	cp := *o
	if o.Argument != nil {
		arg := o.Argument.Clone()
		cp.Argument = &arg
	}
	cp.Validators = slices.Clone(o.Validators)
	cp.Default = o.Default.Clone()
	return cp
}

// Argument returns the argument declared under apiName.
func (c *Command) Argument(apiName string) (*Argument, bool) {
	for i := range c.Arguments {
		if c.Arguments[i].APIName == apiName {
			return &c.Arguments[i], true
		}
	}
	return nil, false
}

// LongOption returns the option whose long name is name.
func (c *Command) LongOption(name string) (*Option, bool) {
	if name == "" {
		return nil, false
	}
	for i := range c.Options {
		if c.Options[i].Long == name {
			return &c.Options[i], true
		}
	}
	return nil, false
}

// ShortOption returns the option whose short name is name.
func (c *Command) ShortOption(name string) (*Option, bool) {
	if name == "" {
		return nil, false
	}
	for i := range c.Options {
		if c.Options[i].Short == name {
			return &c.Options[i], true
		}
	}
	return nil, false
}

// RestArgument returns the variadic argument, if any.
func (c *Command) RestArgument() (*Argument, bool) {
	for i := range c.Arguments {
		if c.Arguments[i].Rest {
			return &c.Arguments[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the command.
func (c *Command) Clone() *Command {
	cp := &Command{
		Name:        c.Name,
		Description: c.Description,
		Aliases:     slices.Clone(c.Aliases),
		Actions:     slices.Clone(c.Actions),
		Order:       c.Order,
		Events:      make(map[Event][]Handler, len(c.Events)),
	}
	cp.Arguments = make([]Argument, len(c.Arguments))
	for i := range c.Arguments {
		cp.Arguments[i] = c.Arguments[i].Clone()
	}
	cp.Options = make([]Option, len(c.Options))
	for i := range c.Options {
		cp.Options[i] = c.Options[i].Clone()
	}
	for ev, hs := range c.Events {
		cp.Events[ev] = slices.Clone(hs)
	}
	return cp
}
