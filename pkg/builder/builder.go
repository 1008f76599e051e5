// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/engine"
	"github.com/invowk/declcli/pkg/grammar"
	"github.com/invowk/declcli/pkg/validate"
)

// commandNameRegex allows alphanumeric words separated by single spaces.
var commandNameRegex = regexp.MustCompile(`^[A-Za-z0-9]+( [A-Za-z0-9]+)*$`)

type (
	// Option configures a Builder.
	Option func(*Builder)

	// Builder accumulates declarations and parses invocations against them.
	// It is not safe for concurrent use.
	Builder struct {
		version  string
		commands []*decl.Command
		// names indexes command names and aliases.
		names   map[string]*decl.Command
		current *decl.Command
		global  bool
		globals decl.Command

		provider   validate.Provider
		logger     *log.Logger
		engineOpts []engine.Option

		eng   *engine.Engine
		dirty bool
	}
)

// WithLogger sets the logger used by the builder and its engine.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithValidatorProvider replaces the built-in validator provider.
func WithValidatorProvider(p validate.Provider) Option {
	return func(b *Builder) {
		if p != nil {
			b.provider = p
		}
	}
}

// WithEngineOptions passes extra options to the engine created by Parse.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(b *Builder) { b.engineOpts = append(b.engineOpts, opts...) }
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		names:    make(map[string]*decl.Command),
		globals:  decl.Command{Events: make(map[decl.Event][]decl.Handler)},
		provider: validate.Builtins(),
		logger:   log.New(io.Discard),
		dirty:    true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Version records the application version for help collaborators.
func (b *Builder) Version(v string) *Builder {
	b.version = v
	b.touch()
	return b
}

// Global turns global mode on: following arguments, options, actions and event
// handlers apply to every command. The next Command call turns it off.
func (b *Builder) Global() *Builder {
	b.global = true
	return b
}

// IsGlobal reports whether global mode is on.
func (b *Builder) IsGlobal() bool { return b.global }

// Command declares a command and moves the cursor to it.
func (b *Builder) Command(name string, description ...string) *Builder {
	if !commandNameRegex.MatchString(name) {
		panic(decl.NewDeclarationError(decl.CodeInvalidCommandName, name,
			"invalid command name %q (use letters and digits, words separated by single spaces)", name))
	}
	if existing, ok := b.names[name]; ok {
		panic(decl.NewDeclarationError(decl.CodeDuplicateCommand, name,
			"command name %q is already used by command %q", name, existing.Name))
	}

	b.global = false
	cmd := &decl.Command{
		Name:        name,
		Description: strings.Join(description, " "),
		Order:       len(b.commands),
		Events:      make(map[decl.Event][]decl.Handler),
	}
	seed(cmd, &b.globals)

	b.commands = append(b.commands, cmd)
	b.names[name] = cmd
	b.current = cmd
	b.touch()
	b.logger.Debug("declared command", "name", name, "seeded_arguments", len(cmd.Arguments), "seeded_options", len(cmd.Options))
	return b
}

// Alias adds an alternative name to the current command.
func (b *Builder) Alias(name string) *Builder {
	if b.global {
		panic(decl.NewDeclarationError(decl.CodeAliasInGlobalMode, name,
			"alias %q cannot be declared in global mode", name))
	}
	if b.current == nil {
		panic(decl.NewDeclarationError(decl.CodeNoActiveCommand, name,
			"alias %q declared before any command", name))
	}
	if !commandNameRegex.MatchString(name) {
		panic(decl.NewDeclarationError(decl.CodeInvalidAlias, name,
			"invalid alias %q (use letters and digits, words separated by single spaces)", name))
	}
	if existing, ok := b.names[name]; ok {
		if existing.Name == name {
			panic(decl.NewDeclarationError(decl.CodeInvalidAlias, name,
				"alias %q collides with command %q", name, existing.Name))
		}
		panic(decl.NewDeclarationError(decl.CodeDuplicateAlias, name,
			"alias %q is already used by command %q", name, existing.Name))
	}

	b.current.Aliases = append(b.current.Aliases, name)
	b.names[name] = b.current
	b.touch()
	return b
}

// Argument declares a positional argument from its syntax: <name>, [name],
// <...name> or [...name].
func (b *Builder) Argument(syntax string, attrs ...Attr) *Builder {
	arg, err := grammar.ParseArgument(syntax)
	if err != nil {
		panic(err)
	}
	a := collect(attrs)
	if a.required || a.multi || a.immediate {
		panic(decl.NewDeclarationError(decl.CodeInvalidAttribute, syntax,
			"argument %q only accepts description, validators and default", syntax))
	}
	arg.Description = a.description
	arg.Validators = a.validators
	if a.hasDefault {
		if arg.Required {
			panic(decl.NewDeclarationError(decl.CodeRequiredWithDefault, syntax,
				"required argument %q cannot have a default", syntax))
		}
		arg.Default = convertDefault(syntax, a.defaultVal, arg.Rest, false)
	}

	targets := b.targets(syntax)
	for _, t := range targets {
		if err := checkArgument(t.Arguments, &arg, syntax); err != nil {
			panic(err)
		}
	}
	for _, t := range targets {
		t.Arguments = append(t.Arguments, arg.Clone())
	}
	b.touch()
	return b
}

// Option declares an option from its syntax, e.g. "-b, --bail <code>".
func (b *Builder) Option(syntax string, attrs ...Attr) *Builder {
	opt, err := grammar.ParseOption(syntax)
	if err != nil {
		panic(err)
	}
	a := collect(attrs)
	opt.Description = a.description
	opt.Validators = a.validators
	opt.Required = a.required
	opt.Multi = a.multi
	opt.Immediate = a.immediate
	if a.hasDefault {
		if opt.Required {
			panic(decl.NewDeclarationError(decl.CodeRequiredWithDefault, syntax,
				"required option %q cannot have a default", syntax))
		}
		opt.Default = convertDefault(syntax, a.defaultVal, opt.Multi, !opt.TakesValue())
	}

	targets := b.targets(syntax)
	for _, t := range targets {
		if err := checkOption(t.Options, &opt, syntax); err != nil {
			panic(err)
		}
	}
	for _, t := range targets {
		t.Options = append(t.Options, opt.Clone())
	}
	b.touch()
	return b
}

// Action appends an action handler.
func (b *Builder) Action(h decl.Handler) *Builder {
	if h == nil {
		panic(decl.NewDeclarationError(decl.CodeNilHandler, "action", "action handler must not be nil"))
	}
	for _, t := range b.targets("action") {
		t.Actions = append(t.Actions, h)
	}
	b.touch()
	return b
}

// On subscribes h to a lifecycle event.
func (b *Builder) On(event decl.Event, h decl.Handler) *Builder {
	if !event.Valid() {
		panic(decl.NewDeclarationError(decl.CodeInvalidEvent, string(event),
			"unknown event %q", string(event)))
	}
	if h == nil {
		panic(decl.NewDeclarationError(decl.CodeNilHandler, string(event),
			"handler for event %q must not be nil", string(event)))
	}
	for _, t := range b.targets(string(event)) {
		t.Events[event] = append(t.Events[event], h)
	}
	b.touch()
	return b
}

// Validators returns the validator provider.
func (b *Builder) Validators() validate.Provider { return b.provider }

// Validator returns the named validator, panicking when the provider does not know it.
func (b *Builder) Validator(name string) decl.Validator {
	v, ok := b.provider.Lookup(name)
	if !ok {
		panic(decl.NewDeclarationError(decl.CodeUnknownValidator, name,
			"unknown validator %q (known: %s)", name, strings.Join(b.provider.Names(), ", ")))
	}
	return v
}

// Current returns the name of the command under the cursor.
func (b *Builder) Current() (string, bool) {
	if b.current == nil {
		return "", false
	}
	return b.current.Name, true
}

// Table returns a snapshot of the declaration table. When no command was declared
// the table holds a single "" command seeded with the global declarations.
func (b *Builder) Table() *decl.Table {
	var cmds []*decl.Command
	if len(b.commands) == 0 {
		top := &decl.Command{Events: make(map[decl.Event][]decl.Handler)}
		seed(top, &b.globals)
		cmds = append(cmds, top)
	} else {
		cmds = make([]*decl.Command, 0, len(b.commands))
		for _, cmd := range b.commands {
			cmds = append(cmds, cmd.Clone())
		}
	}
	return decl.NewTable(b.version, cmds)
}

// Engine returns the engine for the current declarations, rebuilding it when
// declarations changed since the last call.
func (b *Builder) Engine() *engine.Engine {
	if b.eng == nil || b.dirty {
		opts := append([]engine.Option{engine.WithLogger(b.logger)}, b.engineOpts...)
		b.eng = engine.New(b.Table(), opts...)
		b.dirty = false
	}
	return b.eng
}

// Parse resolves args against the declarations and runs the matched command.
// Invocation errors are returned, never panicked.
func (b *Builder) Parse(ctx context.Context, args []string) (*decl.Invocation, error) {
	return b.Engine().Run(ctx, args)
}

func (b *Builder) touch() { b.dirty = true }

// targets returns the declaration scopes the next declaration applies to.
func (b *Builder) targets(subject string) []*decl.Command {
	if b.global {
		out := make([]*decl.Command, 0, len(b.commands)+1)
		out = append(out, &b.globals)
		return append(out, b.commands...)
	}
	if b.current == nil {
		panic(decl.NewDeclarationError(decl.CodeNoActiveCommand, subject,
			"%q declared with no active command and global mode off", subject))
	}
	return []*decl.Command{b.current}
}

// seed copies the global declarations into cmd.
func seed(cmd, globals *decl.Command) {
	for i := range globals.Arguments {
		cmd.Arguments = append(cmd.Arguments, globals.Arguments[i].Clone())
	}
	for i := range globals.Options {
		cmd.Options = append(cmd.Options, globals.Options[i].Clone())
	}
	cmd.Actions = append(cmd.Actions, globals.Actions...)
	for ev, hs := range globals.Events {
		cmd.Events[ev] = append(cmd.Events[ev], hs...)
	}
}

func checkArgument(list []decl.Argument, arg *decl.Argument, syntax string) error {
	for i := range list {
		if list[i].APIName == arg.APIName {
			return decl.NewDeclarationError(decl.CodeDuplicateArgument, syntax,
				"argument %q conflicts with %q", syntax, list[i].Syntax())
		}
	}
	if n := len(list); n > 0 && list[n-1].Rest {
		return decl.NewDeclarationError(decl.CodeRestNotLast, syntax,
			"argument %q cannot follow rest argument %q", syntax, list[n-1].Syntax())
	}
	if arg.Required {
		for i := range list {
			if !list[i].Required {
				return decl.NewDeclarationError(decl.CodeRequiredAfterOptional, syntax,
					"required argument %q cannot follow optional argument %q", syntax, list[i].Syntax())
			}
		}
	}
	return nil
}

func checkOption(list []decl.Option, opt *decl.Option, syntax string) error {
	for i := range list {
		ex := &list[i]
		clash := (opt.Short != "" && ex.Short == opt.Short) ||
			(opt.Long != "" && ex.Long == opt.Long) ||
			(opt.APIName != "" && ex.APIName == opt.APIName)
		if clash {
			return decl.NewDeclarationError(decl.CodeDuplicateOption, syntax,
				"option %q conflicts with %q", syntax, ex.Syntax())
		}
	}
	return nil
}

// convertDefault turns a default into a Value: lists for rest/multi, flags for
// boolean options.
func convertDefault(syntax string, raw any, list, flag bool) decl.Value {
	v, err := decl.FromAny(raw)
	if err != nil {
		panic(decl.NewDeclarationError(decl.CodeInvalidDefault, syntax,
			"invalid default for %q: %v", syntax, err))
	}
	if flag {
		convert := func(item decl.Value) decl.Value {
			b, ok := item.Bool()
			if !ok {
				panic(decl.NewDeclarationError(decl.CodeInvalidDefault, syntax,
					"default for flag %q must be a bool, got %s", syntax, item))
			}
			return decl.FlagValue(b)
		}
		if v.IsList() {
			items := v.Items()
			for i := range items {
				items[i] = convert(items[i])
			}
			v = decl.ListValue(items...)
		} else {
			v = convert(v)
		}
	}
	switch {
	case list && !v.IsList():
		v = decl.ListValue(v)
	case !list && v.IsList():
		panic(decl.NewDeclarationError(decl.CodeInvalidDefault, syntax,
			"list default for %q requires a rest argument or a multi option", syntax))
	}
	return v
}
