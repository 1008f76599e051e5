// SPDX-License-Identifier: MPL-2.0

// Package manifest loads CLI declarations from a file and applies them to a
// builder.
//
// A manifest declares an optional global scope and a list of commands, each
// with arguments, options, actions and lifecycle event handlers. The same
// document can be written in CUE, TOML, HCL or JSON; the format is chosen by
// file extension. Validators are referenced by built-in name, by regular
// expression or as a JavaScript body. Actions are scripts turned into handlers
// by an ActionFactory supplied by the host.
package manifest
