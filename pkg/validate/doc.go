// SPDX-License-Identifier: MPL-2.0

// Package validate provides the built-in validators (STRING, NUMBER, BOOLEAN,
// FILE_PATH), the Provider capability that exposes them by name, and script
// validators compiled from JavaScript.
//
// Built-ins follow the decl.Validator contract and compose with user-defined
// validators in the same list. They apply element-wise to list values and leave
// missing values untouched.
package validate
