// SPDX-License-Identifier: MPL-2.0

package builder

import "github.com/invowk/declcli/pkg/decl"

// Catch runs fn and returns the *decl.DeclarationError it panicked with, if any.
// Other panics propagate.
func Catch(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		de, ok := r.(*decl.DeclarationError)
		if !ok {
			panic(r)
		}
		err = de
	}()
	fn()
	return nil
}
