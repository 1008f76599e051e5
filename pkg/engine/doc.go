// SPDX-License-Identifier: MPL-2.0

// Package engine matches raw process arguments against a declaration table and
// drives the invocation lifecycle.
//
// A run moves through ResolvingCommand, BindingTokens, ApplyingDefaults,
// Validating and ExecutingActions before reaching Done. An immediate option
// jumps from BindingTokens straight to ExecutingActions. Any unrecoverable
// condition ends the run in Failed with an *Error describing it; errors are
// returned, never panicked.
//
// An Engine runs one invocation at a time. Concurrent callers need their own
// Engine built over the same (read-only) table.
package engine
