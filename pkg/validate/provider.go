// SPDX-License-Identifier: MPL-2.0

package validate

import (
	"maps"
	"slices"

	"github.com/invowk/declcli/pkg/decl"
)

type (
	// Provider exposes validators by name.
	Provider interface {
		// Lookup returns the validator registered under name.
		Lookup(name string) (decl.Validator, bool)
		// Names returns the registered names, sorted.
		Names() []string
	}

	// Set is a Provider backed by a map.
	Set map[string]decl.Validator
)

// Builtins returns a fresh Set holding the built-in validators.
func Builtins() Set {
	return Set{
		NameString:   String,
		NameNumber:   Number,
		NameBoolean:  Boolean,
		NameFilePath: FilePath,
	}
}

// Lookup implements Provider.
func (s Set) Lookup(name string) (decl.Validator, bool) {
	v, ok := s[name]
	return v, ok
}

// Names implements Provider.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// With returns a copy of s with extra registered under name.
func (s Set) With(name string, extra decl.Validator) Set {
	cp := maps.Clone(s)
	if cp == nil {
		cp = Set{}
	}
	cp[name] = extra
	return cp
}
