// SPDX-License-Identifier: MPL-2.0

// Package builder provides the fluent declaration API.
//
// A Builder keeps a "current command" cursor and a global-mode toggle:
//
//	b := builder.New()
//	b.Version("1.0.0")
//	b.Global().Option("-v --verbose")
//	b.Command("script new", "Create a script").
//		Alias("sn").
//		Argument("<name>").
//		Option("-b --bail <code>", builder.Multi()).
//		Action(run)
//	inv, err := b.Parse(ctx, os.Args[1:])
//
// Declarations made in global mode before any command exists are copied to the
// front of every command declared later; declarations made in global mode after
// commands exist are appended to those commands immediately and still seed later
// commands. Calling Command switches global mode off.
//
// Declaration mistakes panic with a *decl.DeclarationError; they are programmer
// errors meant to abort startup. Catch converts such a panic into an error for
// callers that build declarations from untrusted input.
package builder
