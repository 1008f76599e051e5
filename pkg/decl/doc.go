// SPDX-License-Identifier: MPL-2.0

// Package decl defines the declaration model shared by the grammar parser,
// the builder and the matching engine.
//
// A Table is the read-only map from command name (or alias) to its Command
// declaration. Commands own ordered Argument and Option declarations, action
// handlers, and lifecycle event handlers. At invocation time the engine binds
// raw tokens into Values carried by an Invocation, which is handed to every
// handler together with a shared Data context.
//
// Value is a tagged union that keeps the difference between an option that was
// never provided (Absent), an option provided without its value (Missing), a
// boolean flag, a scalar and a list explicit.
package decl
