// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

const (
	// OutcomeContinue passes the (possibly replaced) value to the next validator.
	OutcomeContinue Outcome = iota
	// OutcomeFail aborts the invocation with the result's error.
	OutcomeFail
	// OutcomeSuspend stops the remaining validators of the same field.
	OutcomeSuspend
)

// ErrTypeMismatch is wrapped by pattern validator failures.
var ErrTypeMismatch = errors.New("invalid value")

type (
	// Outcome tells the validation pipeline how to proceed.
	Outcome uint8

	// Result is what a validator hands back to the pipeline.
	// The zero Result continues with the value unchanged.
	Result struct {
		outcome  Outcome
		value    Value
		replaced bool
		err      error
	}

	// ValidatorInput is the context a validator receives.
	ValidatorInput struct {
		// Value is the current value, including replacements by earlier validators.
		Value Value
		// Name is the argument name, or the option's long name (short when it has none).
		Name string
		// Arg is true for positional arguments.
		Arg bool
		// Command is the resolved command name.
		Command string
	}

	// Validator checks or transforms a bound value.
	Validator interface {
		Validate(ctx context.Context, in ValidatorInput) Result
	}

	// ValidatorFunc adapts a function to the Validator interface.
	ValidatorFunc func(ctx context.Context, in ValidatorInput) Result

	// Pattern is a validator that requires every scalar to match a regular expression.
	Pattern struct {
		re *regexp.Regexp
	}
)

// Keep continues with the current value.
func Keep() Result { return Result{} }

// Continue replaces the current value with v and continues.
func Continue(v Value) Result {
	return Result{outcome: OutcomeContinue, value: v, replaced: true}
}

// Fail aborts validation with err.
func Fail(err error) Result {
	if err == nil {
		err = errors.New("validation failed")
	}
	return Result{outcome: OutcomeFail, err: err}
}

// Failf aborts validation with a formatted message.
func Failf(format string, args ...any) Result {
	return Fail(fmt.Errorf(format, args...))
}

// Suspend stops the remaining validators of the field, keeping the current value.
func Suspend() Result { return Result{outcome: OutcomeSuspend} }

// SuspendWith stops the remaining validators of the field with v as final value.
func SuspendWith(v Value) Result {
	return Result{outcome: OutcomeSuspend, value: v, replaced: true}
}

// Outcome returns how the pipeline proceeds.
func (r Result) Outcome() Outcome { return r.outcome }

// Value returns the replacement value, if the validator produced one.
func (r Result) Value() (Value, bool) { return r.value, r.replaced }

// Err returns the failure, if any.
func (r Result) Err() error { return r.err }

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, in ValidatorInput) Result {
	return f(ctx, in)
}

// Subject renders the input's field for messages: `argument "name"` or `option --name`.
func (in ValidatorInput) Subject() string {
	if in.Arg {
		return fmt.Sprintf("argument %q", in.Name)
	}
	if len(in.Name) == 1 {
		return "option -" + in.Name
	}
	return "option --" + in.Name
}

// MatchPattern compiles expr into a Pattern validator. It panics if expr does not compile.
func MatchPattern(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

// PatternOf wraps an already compiled expression.
func PatternOf(re *regexp.Regexp) Pattern {
	return Pattern{re: re}
}

// Regexp returns the underlying expression.
func (p Pattern) Regexp() *regexp.Regexp { return p.re }

// Validate requires every scalar in the value to be a string matching the pattern.
// Missing values pass untouched.
func (p Pattern) Validate(_ context.Context, in ValidatorInput) Result {
	if !p.matches(in.Value) {
		return Fail(fmt.Errorf("%w for %s", ErrTypeMismatch, in.Subject()))
	}
	return Keep()
}

func (p Pattern) matches(v Value) bool {
	switch v.Kind() {
	case KindMissing, KindAbsent:
		return true
	case KindList:
		for _, item := range v.items {
			if !p.matches(item) {
				return false
			}
		}
		return true
	case KindScalar:
		s, ok := v.data.(string)
		return ok && p.re.MatchString(s)
	default:
		return p.re.MatchString(v.String())
	}
}
