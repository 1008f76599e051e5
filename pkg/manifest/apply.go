// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/invowk/declcli/pkg/builder"
	"github.com/invowk/declcli/pkg/decl"
	"github.com/invowk/declcli/pkg/validate"
)

type (
	// ActionFactory turns a manifest action into a handler. command is "" for
	// actions declared in the global scope.
	ActionFactory func(command string, action Action) (decl.Handler, error)

	// ApplyOption configures Apply.
	ApplyOption func(*applier)

	applier struct {
		b             *builder.Builder
		actions       ActionFactory
		scriptTimeout time.Duration
	}
)

// WithActionFactory sets how script actions become handlers. Without it,
// manifests declaring actions are rejected.
func WithActionFactory(f ActionFactory) ApplyOption {
	return func(a *applier) { a.actions = f }
}

// WithScriptTimeout bounds each script validator run.
func WithScriptTimeout(d time.Duration) ApplyOption {
	return func(a *applier) { a.scriptTimeout = d }
}

// Apply declares m on b: version, the global scope, then each command with its
// aliases, arguments, options, actions and events. Declaration errors are
// returned as *decl.DeclarationError.
func Apply(b *builder.Builder, m *Manifest, opts ...ApplyOption) error {
	a := &applier{b: b, scriptTimeout: validate.DefaultScriptTimeout}
	for _, opt := range opts {
		opt(a)
	}

	var applyErr error
	if err := builder.Catch(func() { applyErr = a.apply(m) }); err != nil {
		return err
	}
	return applyErr
}

func (a *applier) apply(m *Manifest) error {
	if m.Version != "" {
		a.b.Version(m.Version)
	}
	if m.Global != nil {
		a.b.Global()
		if err := a.scope("", *m.Global); err != nil {
			return err
		}
	}
	for i := range m.Commands {
		cmd := &m.Commands[i]
		a.b.Command(cmd.Name, cmd.Description)
		for _, alias := range cmd.Aliases {
			a.b.Alias(alias)
		}
		if err := a.scope(cmd.Name, cmd.Scope()); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) scope(command string, s Scope) error {
	for _, arg := range s.Arguments {
		attrs, err := a.fieldAttrs(arg.Syntax, arg.Description, arg.Validators, arg.Default)
		if err != nil {
			return err
		}
		a.b.Argument(arg.Syntax, attrs...)
	}

	for _, opt := range s.Options {
		attrs, err := a.fieldAttrs(opt.Syntax, opt.Description, opt.Validators, opt.Default)
		if err != nil {
			return err
		}
		if opt.Required {
			attrs = append(attrs, builder.Required())
		}
		if opt.Multi {
			attrs = append(attrs, builder.Multi())
		}
		if opt.Immediate {
			attrs = append(attrs, builder.Immediate())
		}
		a.b.Option(opt.Syntax, attrs...)
	}

	for _, act := range s.Actions {
		h, err := a.handler(command, act)
		if err != nil {
			return err
		}
		a.b.Action(h)
	}

	for name := range s.Events {
		if !decl.Event(name).Valid() {
			return decl.NewDeclarationError(decl.CodeInvalidEvent, name,
				"unknown event %q (known: %s)", name, joinEvents())
		}
	}
	for _, ev := range decl.Events() {
		for _, act := range s.Events[string(ev)] {
			h, err := a.handler(command, act)
			if err != nil {
				return err
			}
			a.b.On(ev, h)
		}
	}
	return nil
}

func (a *applier) fieldAttrs(syntax, description string, refs []ValidatorRef, def any) ([]builder.Attr, error) {
	var attrs []builder.Attr
	if description != "" {
		attrs = append(attrs, builder.Describe(description))
	}
	if len(refs) > 0 {
		validators := make([]decl.Validator, 0, len(refs))
		for _, ref := range refs {
			v, err := a.validator(syntax, ref)
			if err != nil {
				return nil, err
			}
			validators = append(validators, v)
		}
		attrs = append(attrs, builder.Validators(validators...))
	}
	if def != nil {
		attrs = append(attrs, builder.Default(def))
	}
	return attrs, nil
}

func (a *applier) validator(syntax string, ref ValidatorRef) (decl.Validator, error) {
	if ref.count() != 1 {
		return nil, decl.NewDeclarationError(decl.CodeInvalidAttribute, syntax,
			"validator of %q must set exactly one of builtin, pattern or script", syntax)
	}
	switch {
	case ref.Builtin != "":
		v, ok := a.b.Validators().Lookup(ref.Builtin)
		if !ok {
			return nil, decl.NewDeclarationError(decl.CodeUnknownValidator, ref.Builtin,
				"unknown validator %q for %q (known: %s)", ref.Builtin, syntax,
				strings.Join(a.b.Validators().Names(), ", "))
		}
		return v, nil
	case ref.Pattern != "":
		re, err := regexp.Compile(ref.Pattern)
		if err != nil {
			return nil, decl.NewDeclarationError(decl.CodeInvalidAttribute, syntax,
				"invalid pattern for %q: %v", syntax, err)
		}
		return decl.PatternOf(re), nil
	default:
		v, err := validate.Script(ref.Script, validate.WithScriptTimeout(a.scriptTimeout))
		if err != nil {
			return nil, decl.NewDeclarationError(decl.CodeInvalidAttribute, syntax,
				"invalid script validator for %q: %v", syntax, err)
		}
		return v, nil
	}
}

func (a *applier) handler(command string, act Action) (decl.Handler, error) {
	subject := command
	if subject == "" {
		subject = "global"
	}
	if a.actions == nil {
		return nil, decl.NewDeclarationError(decl.CodeNilHandler, subject,
			"%s declares script actions but no action factory is configured", subject)
	}
	h, err := a.actions(command, act)
	if err != nil {
		return nil, decl.NewDeclarationError(decl.CodeInvalidAttribute, subject,
			"invalid action for %s: %v", subject, err)
	}
	return h, nil
}

func joinEvents() string {
	names := make([]string, 0, len(decl.Events()))
	for _, ev := range decl.Events() {
		names = append(names, string(ev))
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
