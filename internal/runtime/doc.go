// SPDX-License-Identifier: MPL-2.0

// Package runtime runs manifest script actions in an embedded POSIX shell
// interpreter (mvdan/sh).
//
// Each script sees the resolved invocation through environment variables:
// DECLCLI_COMMAND, DECLCLI_INVOCATION_ID, DECLCLI_ARG_<NAME> and DECLCLI_OPT_<NAME>.
// List values additionally export <VAR>_COUNT and <VAR>_1..N. Positional
// parameters $1..$N hold the bound argument values in declaration order.
package runtime
