// SPDX-License-Identifier: MPL-2.0

// Package grammar parses argument and option syntax strings into declarations.
//
// Argument syntax is <name>, [name], <...name> or [...name]. Option syntax is a
// short flag (-x), a long flag (--long-name), or both in either order, followed
// by an optional non-variadic argument token. Both parsers are pure: identical
// input always yields an identical declaration or an identical error.
package grammar
