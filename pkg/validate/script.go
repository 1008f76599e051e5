// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/invowk/declcli/pkg/decl"
)

// DefaultScriptTimeout bounds a single script validator run.
const DefaultScriptTimeout = time.Second

var errScriptTimeout = errors.New("script validator timed out")

type (
	// ScriptOption configures a script validator.
	ScriptOption func(*scriptValidator)

	// scriptValidator runs a JavaScript function body against the current value.
	// The body sees value, name, arg, cmd and suspend; it may return undefined to
	// keep the value, return a replacement, throw (or return an Error) to fail, or
	// call suspend() to stop the remaining validators of the field.
	scriptValidator struct {
		program *goja.Program
		timeout time.Duration
	}
)

// WithScriptTimeout overrides DefaultScriptTimeout.
func WithScriptTimeout(d time.Duration) ScriptOption {
	return func(s *scriptValidator) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Script compiles a JavaScript function body into a validator.
func Script(source string, opts ...ScriptOption) (decl.Validator, error) {
	wrapped := "(function (value, name, arg, cmd, suspend) {\n" + source + "\n})"
	program, err := goja.Compile("validator", wrapped, true)
	if err != nil {
		return nil, fmt.Errorf("compile script validator: %w", err)
	}
	s := &scriptValidator{program: program, timeout: DefaultScriptTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Validate implements decl.Validator.
func (s *scriptValidator) Validate(ctx context.Context, in decl.ValidatorInput) decl.Result {
	vm := goja.New()

	fnValue, err := vm.RunProgram(s.program)
	if err != nil {
		return decl.Fail(fmt.Errorf("script validator: %w", err))
	}
	fn, ok := goja.AssertFunction(fnValue)
	if !ok {
		return decl.Fail(errors.New("script validator: not a function"))
	}

	suspended := false
	suspend := func() { suspended = true }

	timer := time.AfterFunc(s.timeout, func() { vm.Interrupt(errScriptTimeout) })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	ret, err := fn(goja.Undefined(),
		vm.ToValue(in.Value.Interface()),
		vm.ToValue(in.Name),
		vm.ToValue(in.Arg),
		vm.ToValue(in.Command),
		vm.ToValue(suspend),
	)
	if err != nil {
		return decl.Fail(scriptError(err))
	}

	if msg, isErr := errorMessage(ret); isErr {
		return decl.Fail(errors.New(msg))
	}

	if goja.IsUndefined(ret) {
		if suspended {
			return decl.Suspend()
		}
		return decl.Keep()
	}

	next, convErr := decl.FromAny(ret.Export())
	if convErr != nil {
		return decl.Fail(fmt.Errorf("script validator returned %w", convErr))
	}
	if suspended {
		return decl.SuspendWith(next)
	}
	return decl.Continue(next)
}

// scriptError turns a thrown exception into the message the user sees.
func scriptError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return cause
		}
		return errScriptTimeout
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		if msg, ok := errorMessage(exc.Value()); ok {
			return errors.New(msg)
		}
		return errors.New(exc.Value().String())
	}
	return err
}

// errorMessage reports whether v is a JavaScript Error object and returns its message.
func errorMessage(v goja.Value) (string, bool) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "", false
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return "", false
	}
	if obj.ClassName() != "Error" {
		return "", false
	}
	msg := obj.Get("message")
	if msg == nil || goja.IsUndefined(msg) {
		return obj.String(), true
	}
	return msg.String(), true
}
