// SPDX-License-Identifier: MPL-2.0

package builder

import "github.com/invowk/declcli/pkg/decl"

type (
	// Attr sets an optional attribute on an argument or option declaration.
	Attr func(*attrs)

	attrs struct {
		description string
		validators  []decl.Validator
		defaultVal  any
		hasDefault  bool
		required    bool
		multi       bool
		immediate   bool
	}
)

// Describe sets the help text.
func Describe(description string) Attr {
	return func(a *attrs) { a.description = description }
}

// Validators appends validators, run in the given order.
func Validators(validators ...decl.Validator) Attr {
	return func(a *attrs) { a.validators = append(a.validators, validators...) }
}

// Default sets the value used when the argument or option is absent.
// Scalars, slices and decl.Value are accepted.
func Default(value any) Attr {
	return func(a *attrs) {
		a.defaultVal = value
		a.hasDefault = true
	}
}

// Required marks an option as mandatory. Argument requiredness comes from its syntax.
func Required() Attr {
	return func(a *attrs) { a.required = true }
}

// Multi makes an option repeatable, accumulating one list entry per occurrence.
func Multi() Attr {
	return func(a *attrs) { a.multi = true }
}

// Immediate makes an option short-circuit binding, defaults and validation.
func Immediate() Attr {
	return func(a *attrs) { a.immediate = true }
}

func collect(list []Attr) attrs {
	var a attrs
	for _, fn := range list {
		if fn != nil {
			fn(&a)
		}
	}
	return a
}
