// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/invowk/declcli/pkg/decl"
)

// run is the state of a single invocation.
type run struct {
	engine *Engine
	inv    *decl.Invocation
	cmd    *decl.Command
	state  State
	logger *log.Logger
}

func (r *run) to(next State) {
	if !r.state.CanTransition(next) {
		// Transitions are driven by execute alone; reaching this is a bug.
		panic(fmt.Sprintf("engine: invalid transition %s -> %s", r.state, next))
	}
	prev := r.state
	r.state = next
	r.logger.Debug("state transition", "from", prev, "to", next, "command", r.inv.Command)
	if r.engine.observer != nil {
		r.engine.observer(r.inv, prev, next)
	}
}

func (r *run) fail(err error) error {
	var e *Error
	if errors.As(err, &e) && e.Command == "" && r.cmd != nil {
		e.Command = r.cmd.Name
	}
	r.to(StateFailed)
	r.logger.Debug("invocation failed", "error", err)
	return err
}

// checkpoint fails the run when ctx is done.
func (r *run) checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		e := newError(CodeCanceled, r.inv.Command, "", "invocation canceled: %v", err)
		e.Cause = err
		return e
	}
	return nil
}

func (r *run) execute(ctx context.Context, args []string) error {
	if err := r.checkpoint(ctx); err != nil {
		return r.fail(err)
	}
	cmd, rest, err := resolve(r.engine.table, args)
	if err != nil {
		return r.fail(err)
	}
	r.cmd = cmd
	r.inv.Command = cmd.Name
	r.logger.Debug("resolved command", "command", cmd.Name, "tokens", len(rest))
	r.to(StateBindingTokens)

	if imm, ok := r.findImmediate(rest); ok {
		r.inv.Immediate = imm.opt.Key()
		r.inv.Options.Set(imm.opt.Key(), imm.value)
		r.logger.Debug("immediate option", "option", imm.token)
		r.to(StateExecutingActions)
		if err := r.actions(ctx); err != nil {
			return r.fail(err)
		}
		r.to(StateDone)
		return nil
	}

	if err := r.bind(rest); err != nil {
		return r.fail(err)
	}
	if err := r.checkpoint(ctx); err != nil {
		return r.fail(err)
	}

	r.to(StateApplyingDefaults)
	if err := r.defaults(ctx); err != nil {
		return r.fail(err)
	}

	r.to(StateValidating)
	if err := r.validate(ctx); err != nil {
		return r.fail(err)
	}

	r.to(StateExecutingActions)
	if err := r.actions(ctx); err != nil {
		return r.fail(err)
	}
	r.to(StateDone)
	return nil
}

// findImmediate scans leniently for the first immediate option.
func (r *run) findImmediate(tokens []string) (occurrence, bool) {
	hasImmediate := false
	for i := range r.cmd.Options {
		if r.cmd.Options[i].Immediate {
			hasImmediate = true
			break
		}
	}
	if !hasImmediate {
		return occurrence{}, false
	}
	sc, err := scanTokens(r.cmd, tokens, true)
	if err != nil {
		return occurrence{}, false
	}
	for _, occ := range sc.occurrences {
		if occ.opt.Immediate {
			return occ, true
		}
	}
	return occurrence{}, false
}

// bind assigns option occurrences and positional tokens.
func (r *run) bind(tokens []string) error {
	sc, err := scanTokens(r.cmd, tokens, false)
	if err != nil {
		return err
	}
	if err := r.bindOptions(sc.occurrences); err != nil {
		return err
	}
	if err := r.bindPositionals(sc.positionals); err != nil {
		return err
	}
	for i := range r.cmd.Options {
		opt := &r.cmd.Options[i]
		if opt.Required && !r.inv.Options.Has(opt.Key()) {
			return newError(CodeOptionRequired, r.cmd.Name, opt.Display(),
				"missing required option %s", opt.Display())
		}
	}
	return nil
}

func (r *run) bindOptions(occurrences []occurrence) error {
	opts := r.inv.Options
	for _, occ := range occurrences {
		key := occ.opt.Key()
		// Valueless occurrences bind as missing; multi options collect one per occurrence.
		if occ.opt.Multi {
			opts.Set(key, opts.Get(key).Append(occ.value))
			continue
		}
		if prev := opts.Get(key); prev.Provided() {
			if occ.value.IsMissing() && occ.opt.Argument.Required {
				return newError(CodeOptionValueRequired, r.cmd.Name, occ.token,
					"option %s requires a value %s", occ.token, occ.opt.Argument.Syntax())
			}
			if !prev.Equal(occ.value) {
				return newError(CodeOptionRepeated, r.cmd.Name, occ.token,
					"option %s cannot be provided more than once", occ.opt.Display())
			}
			continue
		}
		opts.Set(key, occ.value)
	}
	return nil
}

func (r *run) bindPositionals(tokens []string) error {
	args := r.cmd.Arguments
	for i := range args {
		arg := &args[i]
		if arg.Rest {
			if i < len(tokens) {
				r.inv.Args.Set(arg.APIName, decl.StringList(tokens[i:]...))
			} else if arg.Required {
				return newError(CodeArgRequired, r.cmd.Name, arg.Syntax(),
					"missing required argument %s", arg.Syntax())
			}
			return nil
		}
		if i < len(tokens) {
			r.inv.Args.Set(arg.APIName, decl.ScalarValue(tokens[i]))
			continue
		}
		if arg.Required {
			return newError(CodeArgRequired, r.cmd.Name, arg.Syntax(),
				"missing required argument %s", arg.Syntax())
		}
	}
	if len(tokens) > len(args) {
		return newError(CodeArgsExceeded, r.cmd.Name, tokens[len(args)],
			"expected at most %d argument(s) but received %d", len(args), len(tokens))
	}
	return nil
}

// defaults fills absent optional values. Absent boolean options become false.
func (r *run) defaults(ctx context.Context) error {
	if err := r.emit(ctx, decl.EventDefaultsBefore, CodeValidationFailed); err != nil {
		return err
	}
	for i := range r.cmd.Arguments {
		arg := &r.cmd.Arguments[i]
		if !r.inv.Args.Has(arg.APIName) && arg.Default.Provided() {
			r.inv.Args.Set(arg.APIName, arg.Default.Clone())
		}
	}
	for i := range r.cmd.Options {
		opt := &r.cmd.Options[i]
		key := opt.Key()
		if r.inv.Options.Has(key) {
			continue
		}
		switch {
		case opt.Default.Provided():
			r.inv.Options.Set(key, opt.Default.Clone())
		case !opt.TakesValue() && !opt.Multi:
			r.inv.Options.Set(key, decl.FlagValue(false))
		}
	}
	return r.emit(ctx, decl.EventDefaultsAfter, CodeValidationFailed)
}

// validate runs every field's validators in declaration order, arguments first.
func (r *run) validate(ctx context.Context) error {
	if err := r.emit(ctx, decl.EventValidatorsBefore, CodeValidationFailed); err != nil {
		return err
	}
	for i := range r.cmd.Arguments {
		arg := &r.cmd.Arguments[i]
		if err := r.validateField(ctx, r.inv.Args, arg.APIName, arg.Name, true, arg.Validators); err != nil {
			return err
		}
	}
	for i := range r.cmd.Options {
		opt := &r.cmd.Options[i]
		name := opt.Long
		if name == "" {
			name = opt.Short
		}
		if err := r.validateField(ctx, r.inv.Options, opt.Key(), name, false, opt.Validators); err != nil {
			return err
		}
	}
	return r.emit(ctx, decl.EventValidatorsAfter, CodeValidationFailed)
}

func (r *run) validateField(ctx context.Context, values *decl.Values, key, name string, isArg bool, validators []decl.Validator) error {
	if len(validators) == 0 {
		return nil
	}
	current := values.Get(key)
	if current.IsAbsent() {
		return nil
	}
	in := decl.ValidatorInput{Name: name, Arg: isArg, Command: r.cmd.Name}
	subject := in.Subject()

	for idx, v := range validators {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		in.Value = current
		res := callValidator(ctx, v, in)
		r.logger.Debug("validator", "field", subject, "index", idx, "outcome", res.Outcome())

		if next, ok := res.Value(); ok {
			current = next
		}
		if res.Outcome() == decl.OutcomeFail {
			e := newError(CodeValidationFailed, r.cmd.Name, subject, "%s", res.Err().Error())
			e.Cause = res.Err()
			return e
		}
		if res.Outcome() == decl.OutcomeSuspend {
			break
		}
	}
	values.Set(key, current)
	return nil
}

func callValidator(ctx context.Context, v decl.Validator, in decl.ValidatorInput) (res decl.Result) {
	defer func() {
		if p := recover(); p != nil {
			res = decl.Failf("validator panicked: %v", p)
		}
	}()
	return v.Validate(ctx, in)
}

// actions runs actions:before, the action handlers until one suspends, and
// actions:after, which runs even when an action failed.
func (r *run) actions(ctx context.Context) error {
	if err := r.emit(ctx, decl.EventActionsBefore, CodeActionFailed); err != nil {
		return err
	}

	var actionErr error
	for idx, h := range r.cmd.Actions {
		if r.inv.Suspended() {
			r.logger.Debug("actions suspended", "remaining", len(r.cmd.Actions)-idx)
			break
		}
		if err := r.checkpoint(ctx); err != nil {
			actionErr = err
			break
		}
		r.logger.Debug("action", "index", idx)
		if err := callHandler(ctx, h, r.inv); err != nil {
			actionErr = r.handlerError(err, CodeActionFailed, "action")
			break
		}
	}

	afterErr := r.emit(context.WithoutCancel(ctx), decl.EventActionsAfter, CodeActionFailed)
	if actionErr != nil {
		return actionErr
	}
	return afterErr
}

// emit runs the handlers subscribed to ev; failures are reported under code.
func (r *run) emit(ctx context.Context, ev decl.Event, code Code) error {
	handlers := r.cmd.Events[ev]
	for _, h := range handlers {
		if err := r.checkpoint(ctx); err != nil {
			return err
		}
		if err := callHandler(ctx, h, r.inv); err != nil {
			return r.handlerError(err, code, string(ev))
		}
	}
	if len(handlers) > 0 {
		r.logger.Debug("event handled", "event", ev, "handlers", len(handlers))
	}
	return nil
}

// handlerError keeps errors that already are invocation errors and wraps the rest.
func (r *run) handlerError(err error, code Code, subject string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	wrapped := newError(code, r.cmd.Name, subject, "%s", err.Error())
	wrapped.Cause = err
	return wrapped
}

func callHandler(ctx context.Context, h decl.Handler, inv *decl.Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("handler panicked: %v", p)
		}
	}()
	return h(ctx, inv)
}
